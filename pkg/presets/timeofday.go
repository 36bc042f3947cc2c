package presets

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock time with minute precision, stored as minutes
// after midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" in the range 00:00 to 23:59.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[1]) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// MustParseTimeOfDay is ParseTimeOfDay for constants.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeWindow bounds the departure time on a day. When Latest is before
// Earliest the window runs past midnight.
type TimeWindow struct {
	Earliest TimeOfDay `json:"earliest"`
	Latest   TimeOfDay `json:"latest"`
}

// Overnight reports whether the window crosses midnight.
func (w TimeWindow) Overnight() bool {
	return w.Latest < w.Earliest
}

// Allows reports whether t falls inside the window, bounds included.
func (w TimeWindow) Allows(t TimeOfDay) bool {
	if w.Overnight() {
		return t >= w.Earliest || t <= w.Latest
	}
	return t >= w.Earliest && t <= w.Latest
}
