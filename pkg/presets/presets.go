// Package presets expands the search form's quick-select date presets into
// concrete departure and return slots.
package presets

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gilby125/weekend-trip-api/pkg/dates"
)

// Key identifies a date preset.
type Key string

const (
	// Weekend is the coming Friday to Sunday.
	Weekend Key = "weekend"
	// NextWeekend is the Friday to Sunday one week after Weekend.
	NextWeekend Key = "next-weekend"
	// NextWeek uses the NextWeekend dates with overnight departure windows.
	NextWeek Key = "next-week"
	// Flexible carries no dates; the caller picks them explicitly.
	Flexible Key = "flexible"
)

// Keys lists every preset in display order.
var Keys = []Key{Weekend, NextWeekend, NextWeek, Flexible}

var (
	ErrUnknownPreset = errors.New("unknown date preset")
	ErrNoDatedPreset = errors.New("no dated preset selected")
)

// Time windows attached to the generated slots.
var (
	DayWindow   = TimeWindow{Earliest: MustParseTimeOfDay("06:00"), Latest: MustParseTimeOfDay("23:59")}
	NightWindow = TimeWindow{Earliest: MustParseTimeOfDay("23:00"), Latest: MustParseTimeOfDay("06:00")}
)

// ParseKey validates a preset key.
func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Keys {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}

// ParseKeys validates every key in order.
func ParseKeys(values []string) ([]Key, error) {
	keys := make([]Key, 0, len(values))
	for _, v := range values {
		k, err := ParseKey(v)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Dated reports whether the preset resolves to concrete dates.
func (k Key) Dated() bool {
	return k != Flexible
}

// TimedDate is one departure or return day with its allowed time window.
type TimedDate struct {
	Date dates.CalendarDate `json:"date"`
	TimeWindow
}

// Plan holds the departure and return slots produced by a set of presets.
type Plan struct {
	Reference  dates.CalendarDate `json:"reference"`
	Departures []TimedDate        `json:"departures"`
	Returns    []TimedDate        `json:"returns"`
}

// Window returns the weekend window a dated preset resolves to.
func Window(reference dates.CalendarDate, k Key) (dates.WeekendWindow, bool) {
	window := dates.NextWeekendWindow(reference)
	switch k {
	case Weekend:
		return window, true
	case NextWeekend, NextWeek:
		return window.Shift(1), true
	}
	return dates.WeekendWindow{}, false
}

func timeWindow(k Key) TimeWindow {
	if k == NextWeek {
		return NightWindow
	}
	return DayWindow
}

// Expand resolves keys against reference. Flexible is skipped. Departures
// and returns are de-duplicated by date, keeping the first preset that
// produced the date, and sorted ascending.
func Expand(reference dates.CalendarDate, keys ...Key) (Plan, error) {
	plan := Plan{
		Reference:  reference,
		Departures: []TimedDate{},
		Returns:    []TimedDate{},
	}
	seenDepartures := make(map[dates.CalendarDate]struct{})
	seenReturns := make(map[dates.CalendarDate]struct{})

	for _, k := range keys {
		if _, err := ParseKey(string(k)); err != nil {
			return Plan{}, err
		}
		window, ok := Window(reference, k)
		if !ok {
			continue
		}
		tw := timeWindow(k)

		if _, seen := seenDepartures[window.Start]; !seen {
			seenDepartures[window.Start] = struct{}{}
			plan.Departures = append(plan.Departures, TimedDate{Date: window.Start, TimeWindow: tw})
		}
		if _, seen := seenReturns[window.End]; !seen {
			seenReturns[window.End] = struct{}{}
			plan.Returns = append(plan.Returns, TimedDate{Date: window.End, TimeWindow: tw})
		}
	}

	if len(plan.Departures) == 0 {
		return Plan{}, ErrNoDatedPreset
	}

	sortByDate(plan.Departures)
	sortByDate(plan.Returns)
	return plan, nil
}

// ExpandStrings parses raw keys and expands them.
func ExpandStrings(reference dates.CalendarDate, values []string) (Plan, error) {
	keys, err := ParseKeys(values)
	if err != nil {
		return Plan{}, err
	}
	return Expand(reference, keys...)
}

func sortByDate(slots []TimedDate) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Date.Before(slots[j].Date)
	})
}

// CanonicalKeys returns the distinct dated keys in first-seen order. Two
// key lists with the same canonical form expand to the same Plan, so the
// result is safe to use in cache keys. Order is kept because Expand lets
// the first preset win on a shared date.
func CanonicalKeys(keys []Key) []string {
	set := make(map[Key]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := set[k]; ok || !k.Dated() {
			continue
		}
		set[k] = struct{}{}
		out = append(out, string(k))
	}
	return out
}
