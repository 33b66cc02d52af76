package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/streaks/internal/error_values"
	"github.com/limbo/streaks/internal/repository"
	"github.com/limbo/streaks/internal/streak"
	"github.com/limbo/streaks/pkg/calendar"
	"github.com/limbo/streaks/pkg/entity"
)

type HabitsService struct {
	repo       repository.HabitsRepositoryI
	checksRepo repository.HabitChecksRepositoryI
	clock      calendar.Clock
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI, checksRepo repository.HabitChecksRepositoryI, clock calendar.Clock) *HabitsService {
	if habitsRepo == nil || checksRepo == nil {
		log.Fatal("on habits service provided nil repos")
	}
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return &HabitsService{
		repo:       habitsRepo,
		checksRepo: checksRepo,
		clock:      clock,
	}
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req CreateHabitRequest) (*entity.HabitView, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if err := validateStruct(req, errorvalues.ErrInvalidHabit); err != nil {
		return nil, err
	}
	h := entity.Habit{
		UserID:      uid,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Frequency:   req.Frequency,
	}
	if h.Category == "" {
		h.Category = entity.DefaultCategory
	}
	if h.Frequency == "" {
		h.Frequency = entity.FrequencyDaily
	}
	id, err := hs.repo.Create(ctx, &h)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("habits repository error: %w", err)
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("habits repository error: %w", err)
	}
	view, _, err := deriveView(ctx, hs.checksRepo, habit, calendar.Today(hs.clock))
	return view, err
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID, uid uuid.UUID, req UpdateHabitRequest) (*entity.HabitView, error) {
	if err := validateStruct(req, errorvalues.ErrInvalidHabit); err != nil {
		return nil, err
	}
	habit, err := ownedHabit(ctx, hs.repo, habitID, uid)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be blank", errorvalues.ErrInvalidHabit)
		}
		habit.Name = name
	}
	if req.Description != nil {
		habit.Description = req.Description
	}
	if req.Category != nil {
		habit.Category = strings.TrimSpace(*req.Category)
		if habit.Category == "" {
			habit.Category = entity.DefaultCategory
		}
	}
	if req.Frequency != nil {
		habit.Frequency = *req.Frequency
	}
	if err = hs.repo.Update(ctx, habit); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("habits repository error: %w", err)
	}
	updated, err := ownedHabit(ctx, hs.repo, habitID, uid)
	if err != nil {
		return nil, err
	}
	view, _, err := deriveView(ctx, hs.checksRepo, updated, calendar.Today(hs.clock))
	return view, err
}

func (hs *HabitsService) DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	if _, err := ownedHabit(ctx, hs.repo, habitID, userID); err != nil {
		return err
	}
	err := hs.repo.Delete(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return fmt.Errorf("habits repository error: %w", err)
	}
	return nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.HabitView, error) {
	habit, err := ownedHabit(ctx, hs.repo, habitID, userID)
	if err != nil {
		return nil, err
	}
	view, _, err := deriveView(ctx, hs.checksRepo, habit, calendar.Today(hs.clock))
	return view, err
}

func (hs *HabitsService) GetUserHabits(ctx context.Context, uid uuid.UUID) ([]*entity.HabitView, error) {
	views, _, err := hs.userViews(ctx, uid, calendar.Today(hs.clock))
	return views, err
}

func (hs *HabitsService) GetUserStats(ctx context.Context, uid uuid.UUID) (*entity.UserStats, error) {
	today := calendar.Today(hs.clock)
	_, results, err := hs.userViews(ctx, uid, today)
	if err != nil {
		return nil, err
	}
	stats := streak.Aggregate(results, today)
	return &entity.UserStats{
		TotalHabits:          stats.TotalHabits,
		CompletedToday:       stats.CompletedToday,
		WeeklyCompletionRate: stats.WeeklyCompletionRate,
	}, nil
}

// userViews derives every habit of uid against one fixed "today".
func (hs *HabitsService) userViews(ctx context.Context, uid uuid.UUID, today calendar.Day) ([]*entity.HabitView, []streak.Result, error) {
	habits, err := hs.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, nil, fmt.Errorf("habits repository error: %w", err)
	}
	views := make([]*entity.HabitView, 0, len(habits))
	results := make([]streak.Result, 0, len(habits))
	for _, h := range habits {
		view, res, err := deriveView(ctx, hs.checksRepo, h, today)
		if err != nil {
			return nil, nil, err
		}
		views = append(views, view)
		results = append(results, res)
	}
	return views, results, nil
}
