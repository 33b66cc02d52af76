// Package streak derives streak and completion statistics from a habit's check-in days.
// Everything here is pure: callers pass "today" explicitly.
package streak

import (
	"slices"

	"github.com/limbo/streaks/pkg/calendar"
)

type Result struct {
	CompletedToday bool
	CurrentStreak  int
	LongestStreak  int
	// Deduplicated check-in days, ascending.
	CompletedDates []calendar.Day
}

// Compute walks the sorted, deduplicated days once. A run continues while consecutive days
// are exactly one day apart. The run ending at the last day is the current streak only when
// that day is today or yesterday.
func Compute(days []calendar.Day, today calendar.Day) Result {
	sorted := Normalize(days)
	if len(sorted) == 0 {
		return Result{CompletedDates: sorted}
	}

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if calendar.DaysBetween(sorted[i-1], sorted[i]) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	current := 0
	last := sorted[len(sorted)-1]
	if last.Equal(today) || last.Equal(today.AddDays(-1)) {
		current = run
	}

	_, completedToday := slices.BinarySearchFunc(sorted, today, calendar.Day.Compare)

	return Result{
		CompletedToday: completedToday,
		CurrentStreak:  current,
		LongestStreak:  longest,
		CompletedDates: sorted,
	}
}

// Normalize returns a sorted copy of days without duplicates. The input is left untouched.
func Normalize(days []calendar.Day) []calendar.Day {
	out := slices.Clone(days)
	if out == nil {
		out = []calendar.Day{}
	}
	slices.SortFunc(out, calendar.Day.Compare)
	return slices.CompactFunc(out, calendar.Day.Equal)
}
