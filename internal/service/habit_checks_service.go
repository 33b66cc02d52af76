package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/streaks/internal/error_values"
	"github.com/limbo/streaks/internal/metrics"
	"github.com/limbo/streaks/internal/repository"
	"github.com/limbo/streaks/pkg/calendar"
	"github.com/limbo/streaks/pkg/entity"
	"github.com/limbo/streaks/pkg/logging"
)

type HabitChecksService struct {
	habitsRepo repository.HabitsRepositoryI
	checksRepo repository.HabitChecksRepositoryI
	clock      calendar.Clock
}

func NewHabitChecksService(habitsRepo repository.HabitsRepositoryI, checksRepo repository.HabitChecksRepositoryI, clock calendar.Clock) *HabitChecksService {
	if habitsRepo == nil || checksRepo == nil {
		log.Fatal("on habit checks service provided nil repos")
	}
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return &HabitChecksService{
		habitsRepo: habitsRepo,
		checksRepo: checksRepo,
		clock:      clock,
	}
}

// ToggleCheck flips the check of one day: present is removed, absent is created.
// Two toggles of the same day cancel out. The date is validated before storage is touched.
func (serv *HabitChecksService) ToggleCheck(ctx context.Context, habitID, userID uuid.UUID, date *calendar.Day) (*entity.HabitView, error) {
	today := calendar.Today(serv.clock)
	day := today
	if date != nil {
		if date.IsZero() {
			return nil, errorvalues.ErrInvalidDate
		}
		if date.After(today) {
			return nil, fmt.Errorf("%w: %s is in the future", errorvalues.ErrInvalidDate, date)
		}
		day = *date
	}
	habit, err := ownedHabit(ctx, serv.habitsRepo, habitID, userID)
	if err != nil {
		return nil, err
	}
	outcome, err := serv.toggle(ctx, habitID, day)
	if err != nil {
		return nil, err
	}
	metrics.RecordToggle(outcome)
	logging.FromContext(ctx).Debug("check toggled",
		slog.String("habit_id", habitID.String()),
		slog.String("date", day.String()),
		slog.String("outcome", outcome),
	)
	view, _, err := deriveView(ctx, serv.checksRepo, habit, today)
	return view, err
}

// toggle relies on the (habit, date) uniqueness of the store instead of a lock: when two toggles
// both see the day absent, the losing insert reports ErrCheckExist and becomes a no-op.
func (serv *HabitChecksService) toggle(ctx context.Context, habitID uuid.UUID, day calendar.Day) (string, error) {
	exists, err := serv.checksRepo.Exists(ctx, habitID, day)
	if err != nil {
		return "", fmt.Errorf("checks repository error: %w", err)
	}
	if exists {
		affected, err := serv.checksRepo.Delete(ctx, habitID, day)
		if err != nil {
			return "", fmt.Errorf("checks repository error: %w", err)
		}
		if affected == 0 {
			return metrics.OutcomeRaced, nil
		}
		return metrics.OutcomeUnchecked, nil
	}
	err = serv.checksRepo.Create(ctx, habitID, day)
	switch {
	case err == nil:
		return metrics.OutcomeChecked, nil
	case errors.Is(err, errorvalues.ErrCheckExist):
		return metrics.OutcomeRaced, nil
	case errors.Is(err, errorvalues.ErrHabitNotFound):
		// habit deleted between lookup and insert
		return "", errorvalues.ErrHabitNotFound
	default:
		return "", fmt.Errorf("checks repository error: %w", err)
	}
}

func (serv *HabitChecksService) GetHabitChecks(ctx context.Context, habitID, userID uuid.UUID, from, to *calendar.Day) ([]entity.HabitCheck, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: from %s is after to %s", errorvalues.ErrInvalidDate, from, to)
	}
	if _, err := ownedHabit(ctx, serv.habitsRepo, habitID, userID); err != nil {
		return nil, err
	}
	checks, err := serv.checksRepo.GetByHabitAndDateRange(ctx, habitID, from, to)
	if err != nil {
		return nil, fmt.Errorf("checks repository error: %w", err)
	}
	return checks, nil
}
