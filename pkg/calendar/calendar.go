// Package calendar provides a date-only value and day arithmetic on top of a single reference clock.
package calendar

import (
	"errors"
	"strings"
	"time"
)

const Layout = time.DateOnly

var ErrInvalidDay = errors.New("invalid calendar day, expected YYYY-MM-DD")

// Day is a calendar day without time-of-day. Internally it is midnight UTC of its year/month/day,
// so differences between two days are always whole multiples of 24h.
type Day struct {
	t time.Time
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Date(y, m, d)
}

func Date(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return Day{}, ErrInvalidDay
	}
	return DayOf(t), nil
}

// Time returns the day as midnight UTC.
func (d Day) Time() time.Time {
	return d.t
}

func (d Day) IsZero() bool {
	return d.t.IsZero()
}

func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

func (d Day) After(other Day) bool {
	return d.t.After(other.t)
}

func (d Day) Equal(other Day) bool {
	return d.t.Equal(other.t)
}

// Compare returns -1, 0 or +1, suitable for slices.SortFunc.
func (d Day) Compare(other Day) int {
	return d.t.Compare(other.t)
}

func (d Day) String() string {
	return d.t.Format(Layout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Day) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = Day{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ErrInvalidDay
	}
	parsed, err := ParseDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the signed number of days from a to b (positive when b is later).
func DaysBetween(a, b Day) int {
	return int(b.t.Sub(a.t).Hours() / 24)
}
