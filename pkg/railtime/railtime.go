// Package railtime implements the integer-minute timestamp arithmetic the
// reservation engine uses for train timetables and sale windows. There is
// no calendar year and no time zone: a timestamp is a signed count of
// minutes since the notional origin "01-01 00:00" of a single calendar.
package railtime

import (
	"fmt"
)

// Minute is a signed count of minutes since "01-01 00:00".
type Minute int64

const minutesPerDay Minute = 24 * 60

// OneDay is the minute count of a single calendar day, exported for
// callers (the transfer search's "fastest catch-up" arithmetic,
// spec.md §4.4) that need to add a full day to a timestamp.
const OneDay = minutesPerDay

// InfTime is the sentinel used for "never departs" (a terminal station's
// leaving time) and for "unbounded" upper range keys. It must never be
// passed through date/clock decomposition or arithmetic; Format renders
// it as the literal "xx-xx xx:xx" without touching its numeric value.
const InfTime Minute = 1 << 30

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var cumDaysBeforeMonth = func() [12]int {
	var out [12]int
	sum := 0
	for i, d := range daysInMonth {
		out[i] = sum
		sum += d
	}
	return out
}()

// New builds a timestamp from a month (1-12), day (1-based), hour and
// minute.
func New(month, day, hour, minute int) Minute {
	days := cumDaysBeforeMonth[month-1] + (day - 1)
	return Minute(days)*minutesPerDay + Minute(hour)*60 + Minute(minute)
}

// Date builds a midnight timestamp for the given month/day.
func Date(month, day int) Minute {
	return New(month, day, 0, 0)
}

// Add returns m+delta. Never call with m == InfTime.
func (m Minute) Add(delta Minute) Minute { return m + delta }

// Sub returns m-other. Never call with either operand == InfTime.
func (m Minute) Sub(other Minute) Minute { return m - other }

// Less reports whether m orders strictly before other.
func (m Minute) Less(other Minute) bool { return m < other }

// DateComponent returns the midnight-aligned minute count containing m.
// Must not be called with m == InfTime.
func (m Minute) DateComponent() Minute {
	r := m % minutesPerDay
	if r < 0 {
		r += minutesPerDay
	}
	return m - r
}

// ClockComponent returns minutes past the midnight returned by
// DateComponent. Must not be called with m == InfTime.
func (m Minute) ClockComponent() Minute {
	r := m % minutesPerDay
	if r < 0 {
		r += minutesPerDay
	}
	return r
}

// Format renders m as "MM-DD HH:MM", or "xx-xx xx:xx" for InfTime.
func (m Minute) Format() string {
	if m == InfTime {
		return "xx-xx xx:xx"
	}
	date := m.DateComponent()
	clock := m.ClockComponent()
	days := int(date / minutesPerDay)
	month := 1
	for month < 12 && days >= cumDaysBeforeMonth[month] {
		month++
	}
	day := days - cumDaysBeforeMonth[month-1] + 1
	hour := int(clock / 60)
	minute := int(clock % 60)
	return fmt.Sprintf("%02d-%02d %02d:%02d", month, day, hour, minute)
}

// ParseDate parses a "MM-DD" string into a midnight timestamp.
func ParseDate(s string) (Minute, error) {
	var month, day int
	if _, err := fmt.Sscanf(s, "%d-%d", &month, &day); err != nil {
		return 0, fmt.Errorf("railtime: invalid date %q: %w", s, err)
	}
	if month < 1 || month > 12 || day < 1 || day > daysInMonth[month-1] {
		return 0, fmt.Errorf("railtime: date %q out of range", s)
	}
	return Date(month, day), nil
}

// ParseDateTime parses a "MM-DD HH:MM" string.
func ParseDateTime(s string) (Minute, error) {
	var month, day, hour, minute int
	if _, err := fmt.Sscanf(s, "%d-%d %d:%d", &month, &day, &hour, &minute); err != nil {
		return 0, fmt.Errorf("railtime: invalid timestamp %q: %w", s, err)
	}
	if month < 1 || month > 12 || day < 1 || day > daysInMonth[month-1] || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("railtime: timestamp %q out of range", s)
	}
	return New(month, day, hour, minute), nil
}

// ParseClock parses an "HH:MM" string into a minute-of-day offset.
func ParseClock(s string) (Minute, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("railtime: invalid clock %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("railtime: clock %q out of range", s)
	}
	return Minute(hour)*60 + Minute(minute), nil
}
