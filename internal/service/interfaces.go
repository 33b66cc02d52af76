package service

//go:generate mockgen -source=interfaces.go -destination=mocks/service_mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/limbo/streaks/pkg/calendar"
	"github.com/limbo/streaks/pkg/entity"
)

type RegisterRequest struct {
	Email    string `validate:"required,email,max=255"`
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type CreateHabitRequest struct {
	Name        string           `validate:"required,max=100"`
	Description *string          `validate:"omitempty,max=500"`
	Category    string           `validate:"max=50"`
	Frequency   entity.Frequency `validate:"omitempty,oneof=daily weekly"`
}

// UpdateHabitRequest carries only the editable fields. Nil means "leave as is".
type UpdateHabitRequest struct {
	Name        *string           `validate:"omitempty,min=1,max=100"`
	Description *string           `validate:"omitempty,max=500"`
	Category    *string           `validate:"omitempty,max=50"`
	Frequency   *entity.Frequency `validate:"omitempty,oneof=daily weekly"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, email, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type HabitsServiceI interface {
	CreateHabit(ctx context.Context, uid uuid.UUID, req CreateHabitRequest) (*entity.HabitView, error)
	UpdateHabit(ctx context.Context, habitID, uid uuid.UUID, req UpdateHabitRequest) (*entity.HabitView, error)
	DeleteHabit(ctx context.Context, habitID, uid uuid.UUID) error
	// Habit of uid with streaks derived from its checks
	GetHabit(ctx context.Context, habitID, uid uuid.UUID) (*entity.HabitView, error)
	GetUserHabits(ctx context.Context, uid uuid.UUID) ([]*entity.HabitView, error)
	// Totals over every habit of uid
	GetUserStats(ctx context.Context, uid uuid.UUID) (*entity.UserStats, error)
}

type HabitChecksServiceI interface {
	// Checks the day if it is unchecked, unchecks it otherwise. Nil date means today
	ToggleCheck(ctx context.Context, habitID, uid uuid.UUID, date *calendar.Day) (*entity.HabitView, error)
	// Checks of habit in inclusive [from, to]; nil bound is open
	GetHabitChecks(ctx context.Context, habitID, uid uuid.UUID, from, to *calendar.Day) ([]entity.HabitCheck, error)
}
