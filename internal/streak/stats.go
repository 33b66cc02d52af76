package streak

import "github.com/limbo/streaks/pkg/calendar"

// WeekWindow is the length of the trailing completion window, today included.
const WeekWindow = 7

type Stats struct {
	TotalHabits          int
	CompletedToday       int
	WeeklyCompletionRate float64
}

// Aggregate combines already computed per-habit results. It never looks at storage.
func Aggregate(results []Result, today calendar.Day) Stats {
	stats := Stats{TotalHabits: len(results)}
	if stats.TotalHabits == 0 {
		return stats
	}

	windowStart := today.AddDays(-(WeekWindow - 1))
	completions := 0
	for _, r := range results {
		if r.CompletedToday {
			stats.CompletedToday++
		}
		for _, d := range r.CompletedDates {
			if !d.Before(windowStart) && !d.After(today) {
				completions++
			}
		}
	}
	stats.WeeklyCompletionRate = float64(completions) / float64(stats.TotalHabits*WeekWindow)
	return stats
}
