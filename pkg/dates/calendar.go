// Package dates provides a date-only calendar value and the weekend-window
// calculation used by the search presets.
package dates

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Layout is the ISO-8601 calendar date layout accepted and emitted by CalendarDate.
const Layout = "2006-01-02"

// WeekdayIndex encodes the day of week with Sunday=0 ... Saturday=6. It is
// the same convention as time.Weekday.
type WeekdayIndex = time.Weekday

// CalendarDate is an immutable date with no time-of-day or timezone.
// The zero value is not a valid date; use IsZero to detect it.
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

// InvalidDateError is returned when a value cannot be turned into a real calendar date.
type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid date %q", e.Input)
	}
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

// New returns the date for the given fields. Fields that do not name an
// existing day (2026-02-30, month 13) are rejected rather than normalized.
func New(year int, month time.Month, day int) (CalendarDate, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return CalendarDate{}, &InvalidDateError{
			Input:  fmt.Sprintf("%04d-%02d-%02d", year, int(month), day),
			Reason: "day does not exist in calendar",
		}
	}
	return CalendarDate{year: year, month: month, day: day}, nil
}

// MustNew is New for constants known to be valid. It panics otherwise.
func MustNew(year int, month time.Month, day int) CalendarDate {
	d, err := New(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime returns the calendar date of t as observed in t's own location.
// The clock part of t is discarded.
func FromTime(t time.Time) CalendarDate {
	return CalendarDate{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Today returns the current calendar date in loc according to now.
func Today(now func() time.Time, loc *time.Location) CalendarDate {
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(now().In(loc))
}

// Parse reads a YYYY-MM-DD date. A trailing RFC 3339 time-of-day is
// validated and dropped; the date fields written in the string are kept.
func Parse(s string) (CalendarDate, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return CalendarDate{}, &InvalidDateError{Input: s, Reason: "empty value"}
	}

	if len(value) > len(Layout) && (value[len(Layout)] == 'T' || value[len(Layout)] == ' ') {
		full := strings.Replace(value, " ", "T", 1)
		t, err := time.Parse(time.RFC3339Nano, full)
		if err != nil {
			t, err = time.Parse("2006-01-02T15:04:05", full)
		}
		if err != nil {
			return CalendarDate{}, &InvalidDateError{Input: s, Reason: parseReason(err)}
		}
		return FromTime(t), nil
	}

	t, err := time.Parse(Layout, value)
	if err != nil {
		return CalendarDate{}, &InvalidDateError{Input: s, Reason: parseReason(err)}
	}
	return FromTime(t), nil
}

func parseReason(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "day out of range") || strings.Contains(msg, "month out of range") {
		return "day does not exist in calendar"
	}
	return "expected YYYY-MM-DD"
}

// Year returns the year.
func (d CalendarDate) Year() int { return d.year }

// Month returns the month.
func (d CalendarDate) Month() time.Month { return d.month }

// Day returns the day of month.
func (d CalendarDate) Day() int { return d.day }

// IsZero reports whether d is the zero value.
func (d CalendarDate) IsZero() bool { return d == CalendarDate{} }

// midnight is the UTC instant the date starts at. UTC has no DST, so whole
// days are always 24h apart.
func (d CalendarDate) midnight() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of week, Sunday=0.
func (d CalendarDate) Weekday() WeekdayIndex {
	return d.midnight().Weekday()
}

// AddDays returns a new date n calendar days after d (before, if n < 0).
func (d CalendarDate) AddDays(n int) CalendarDate {
	return FromTime(time.Date(d.year, d.month, d.day+n, 0, 0, 0, 0, time.UTC))
}

// DaysUntil returns the number of whole days from d to other.
func (d CalendarDate) DaysUntil(other CalendarDate) int {
	return int(other.midnight().Sub(d.midnight()).Hours() / 24)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other.
func (d CalendarDate) Compare(other CalendarDate) int {
	switch {
	case d.year != other.year:
		return sign(d.year - other.year)
	case d.month != other.month:
		return sign(int(d.month) - int(other.month))
	default:
		return sign(d.day - other.day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Equal reports whether d and other are the same day.
func (d CalendarDate) Equal(other CalendarDate) bool { return d == other }

// Before reports whether d is strictly before other.
func (d CalendarDate) Before(other CalendarDate) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly after other.
func (d CalendarDate) After(other CalendarDate) bool { return d.Compare(other) > 0 }

// In returns midnight of d in loc.
func (d CalendarDate) In(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalText implements encoding.TextMarshaler.
func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *CalendarDate) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON emits the date as a "YYYY-MM-DD" string, or null for the zero value.
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a "YYYY-MM-DD" string. null leaves d unchanged.
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &InvalidDateError{Input: string(data), Reason: "expected a JSON string"}
	}
	return d.UnmarshalText([]byte(s))
}
