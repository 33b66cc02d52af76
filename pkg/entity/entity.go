package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/limbo/streaks/pkg/calendar"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"

	DefaultCategory = "General"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

type Habit struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"uid"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Category    string    `json:"category"`
	Frequency   Frequency `json:"frequency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type HabitCheck struct {
	ID        uuid.UUID    `json:"id"`
	HabitID   uuid.UUID    `json:"habit_id"`
	CheckDate calendar.Day `json:"date"`
	CreatedAt time.Time    `json:"created_at"`
}

// HabitView is a habit together with the state derived from its checks.
// The derived fields are recomputed on every read and never stored.
type HabitView struct {
	Habit
	CompletedToday bool           `json:"completed_today"`
	CurrentStreak  int            `json:"current_streak"`
	LongestStreak  int            `json:"longest_streak"`
	CompletedDates []calendar.Day `json:"completed_dates"`
}

type UserStats struct {
	TotalHabits          int     `json:"total_habits"`
	CompletedToday       int     `json:"completed_today"`
	WeeklyCompletionRate float64 `json:"weekly_completion_rate"`
}
