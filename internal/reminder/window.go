package reminder

import "time"

const (
	DefaultMinDays = 0
	DefaultMaxDays = 3
)

// Window - inclusive range of days-until-renewal that qualifies for a reminder
type Window struct {
	MinDays int
	MaxDays int
}

func DefaultWindow() Window {
	return Window{MinDays: DefaultMinDays, MaxDays: DefaultMaxDays}
}

// Contains reports whether days falls inside the window. Past-due renewals
// (negative days) never qualify, whatever MinDays says.
func (w Window) Contains(days int) bool {
	return days >= 0 && days >= w.MinDays && days <= w.MaxDays
}

// DaysUntil counts the whole days elapsed between now and renewal, truncated
// toward zero: 3 days and 1h30m ahead is 3, 10 hours ago is 0, 25 hours ago is -1.
// Days are counted on the wall clock of loc, so a DST shift does not cost a day.
func DaysUntil(renewal, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	r := renewal.In(loc)
	n := now.In(loc)
	days := int(civilDay(r).Sub(civilDay(n)).Hours() / 24)

	// an incomplete last day does not count
	rc, nc := wallClock(r), wallClock(n)
	switch {
	case days > 0 && rc < nc:
		days--
	case days < 0 && rc > nc:
		days++
	}
	return days
}

// civilDay - calendar date of t pinned to UTC, so day differences are exact
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// wallClock - time of day of t as shown on its clock
func wallClock(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}
