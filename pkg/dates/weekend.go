package dates

import "time"

// weekendNights is the number of nights between the Friday start and the Sunday end.
const weekendNights = 2

// WeekendWindow is a Friday to Sunday range.
type WeekendWindow struct {
	Start CalendarDate `json:"start"`
	End   CalendarDate `json:"end"`
}

// NextWeekendWindow returns the first Friday strictly after reference and the
// Sunday two days later. A Friday reference yields the Friday one week later;
// Saturday and Sunday references yield the Friday of the coming week.
//
// The zero CalendarDate is not a date; passing it panics with an
// *InvalidDateError instead of returning a window in year -1.
func NextWeekendWindow(reference CalendarDate) WeekendWindow {
	if reference.IsZero() {
		panic(&InvalidDateError{Input: "", Reason: "zero CalendarDate has no weekday"})
	}
	offset := (int(time.Friday) - int(reference.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	start := reference.AddDays(offset)
	return WeekendWindow{
		Start: start,
		End:   start.AddDays(weekendNights),
	}
}

// ParseWeekendWindow parses reference and computes its weekend window.
func ParseWeekendWindow(reference string) (WeekendWindow, error) {
	d, err := Parse(reference)
	if err != nil {
		return WeekendWindow{}, err
	}
	return NextWeekendWindow(d), nil
}

// WeekendOf returns the Friday to Sunday window that d falls in. The bool is
// false for Monday to Thursday.
func WeekendOf(d CalendarDate) (WeekendWindow, bool) {
	// Three days back from Friday, Saturday or Sunday is Tuesday to Thursday,
	// whose next weekend is the one containing d.
	window := NextWeekendWindow(d.AddDays(-3))
	if !window.Contains(d) {
		return WeekendWindow{}, false
	}
	return window, true
}

// Shift returns the window moved by the given number of whole weeks.
func (w WeekendWindow) Shift(weeks int) WeekendWindow {
	return WeekendWindow{
		Start: w.Start.AddDays(7 * weeks),
		End:   w.End.AddDays(7 * weeks),
	}
}

// Nights returns the number of nights covered by the window.
func (w WeekendWindow) Nights() int {
	return w.Start.DaysUntil(w.End)
}

// Contains reports whether d falls on any day of the window, ends included.
func (w WeekendWindow) Contains(d CalendarDate) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}
