package calendar

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock and interprets it in Location.
// A nil Location means the server's local time zone.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant. Used by tests and tooling.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

func Today(c Clock) Day {
	return DayOf(c.Now())
}

func Yesterday(c Clock) Day {
	return Today(c).AddDays(-1)
}
