package calendar_test

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/limbo/streaks/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOfIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2025, time.March, 10, 0, 0, 1, 0, time.UTC)
	night := time.Date(2025, time.March, 10, 23, 59, 59, 0, time.UTC)
	assert.True(t, calendar.DayOf(morning).Equal(calendar.DayOf(night)))
	assert.Equal(t, "2025-03-10", calendar.DayOf(night).String())
}

func TestDayOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	instant := time.Date(2025, time.March, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", calendar.DayOf(instant).String())
	assert.Equal(t, "2025-03-11", calendar.DayOf(instant.In(loc)).String())
}

func TestDaysBetween(t *testing.T) {
	testCases := []struct {
		Desc     string
		A        calendar.Day
		B        calendar.Day
		Expected int
	}{
		{
			Desc:     "same day",
			A:        calendar.Date(2025, time.January, 1),
			B:        calendar.Date(2025, time.January, 1),
			Expected: 0,
		},
		{
			Desc:     "next day",
			A:        calendar.Date(2025, time.January, 1),
			B:        calendar.Date(2025, time.January, 2),
			Expected: 1,
		},
		{
			Desc:     "negative",
			A:        calendar.Date(2025, time.January, 10),
			B:        calendar.Date(2025, time.January, 3),
			Expected: -7,
		},
		{
			Desc:     "across leap day",
			A:        calendar.Date(2024, time.February, 28),
			B:        calendar.Date(2024, time.March, 1),
			Expected: 2,
		},
		{
			Desc:     "across year",
			A:        calendar.Date(2024, time.December, 31),
			B:        calendar.Date(2025, time.January, 1),
			Expected: 1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			assert.Equal(t, tc.Expected, calendar.DaysBetween(tc.A, tc.B))
		})
	}
}

func TestTodayYesterday(t *testing.T) {
	clock := calendar.FixedClock(time.Date(2025, time.March, 1, 8, 30, 0, 0, time.UTC))
	assert.Equal(t, "2025-03-01", calendar.Today(clock).String())
	assert.Equal(t, "2025-02-28", calendar.Yesterday(clock).String())
}

func TestParseDay(t *testing.T) {
	d, err := calendar.ParseDay("2025-06-15")
	require.NoError(t, err)
	assert.True(t, d.Equal(calendar.Date(2025, time.June, 15)))

	for _, bad := range []string{"", "2025-13-01", "15/06/2025", "2025-06-15T10:00:00Z"} {
		_, err := calendar.ParseDay(bad)
		assert.ErrorIs(t, err, calendar.ErrInvalidDay, bad)
	}
}

func TestDayJSON(t *testing.T) {
	type payload struct {
		Date  calendar.Day   `json:"date"`
		Dates []calendar.Day `json:"dates"`
	}
	in := payload{
		Date:  calendar.Date(2025, time.May, 4),
		Dates: []calendar.Day{calendar.Date(2025, time.May, 3)},
	}
	data, err := sonic.ConfigDefault.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-05-04","dates":["2025-05-03"]}`, string(data))

	var out payload
	require.NoError(t, sonic.ConfigDefault.Unmarshal(data, &out))
	assert.True(t, out.Date.Equal(in.Date))
	require.Len(t, out.Dates, 1)
	assert.True(t, out.Dates[0].Equal(in.Dates[0]))

	err = sonic.ConfigDefault.Unmarshal([]byte(`{"date":"yesterday"}`), &out)
	assert.Error(t, err)
}
