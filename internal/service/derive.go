package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/streaks/internal/error_values"
	"github.com/limbo/streaks/internal/repository"
	"github.com/limbo/streaks/internal/streak"
	"github.com/limbo/streaks/pkg/calendar"
	"github.com/limbo/streaks/pkg/entity"
)

// ownedHabit loads the habit and hides habits of other users behind ErrHabitNotFound.
func ownedHabit(ctx context.Context, repo repository.HabitsRepositoryI, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, fmt.Errorf("habits repository error: %w", err)
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrHabitNotFound
	}
	return habit, nil
}

// deriveView reads the current check days and recomputes streaks. Nothing is cached between calls.
func deriveView(ctx context.Context, checksRepo repository.HabitChecksRepositoryI, habit *entity.Habit, today calendar.Day) (*entity.HabitView, streak.Result, error) {
	days, err := checksRepo.ListDates(ctx, habit.ID)
	if err != nil {
		return nil, streak.Result{}, fmt.Errorf("checks repository error: %w", err)
	}
	res := streak.Compute(days, today)
	return &entity.HabitView{
		Habit:          *habit,
		CompletedToday: res.CompletedToday,
		CurrentStreak:  res.CurrentStreak,
		LongestStreak:  res.LongestStreak,
		CompletedDates: res.CompletedDates,
	}, res, nil
}
