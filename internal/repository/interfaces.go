package repository

//go:generate mockgen -source=interfaces.go -destination=mocks/repository_mocks.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/streaks/pkg/calendar"
	"github.com/limbo/streaks/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database, returns generated id
	Create(ctx context.Context, user *entity.User) (uuid.UUID, error)
	// Looks up user by email. Used for login
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid. Used by authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user together with habits and checks
	Delete(ctx context.Context, uid uuid.UUID) error
}

type HabitsRepositoryI interface {
	// Creates new habit. Name, UserID, Category and Frequency are necessary
	Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error)
	// Searches habit with given id, regardless of owner
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists every habit owned by user with uid, oldest first
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	// Updates editable fields of habit by ID (ID in habit is necessary)
	Update(ctx context.Context, habit *entity.Habit) error
	// Deletes habit with id, its checks are removed by cascade
	Delete(ctx context.Context, id uuid.UUID) error
}

type HabitChecksRepositoryI interface {
	// Creates new check on habit. Returns ErrCheckExist if the day is already checked
	Create(ctx context.Context, habitID uuid.UUID, day calendar.Day) error
	// Deletes check on habit (uncheck). Returns number of removed rows
	Delete(ctx context.Context, habitID uuid.UUID, day calendar.Day) (int64, error)
	// Inspects if check exists
	Exists(ctx context.Context, habitID uuid.UUID, day calendar.Day) (bool, error)
	// Returns every checked day of habit, ascending
	ListDates(ctx context.Context, habitID uuid.UUID) ([]calendar.Day, error)
	// Provides checks of habit for an inclusive period. Nil bound means open
	GetByHabitAndDateRange(ctx context.Context, habitID uuid.UUID, from, to *calendar.Day) ([]entity.HabitCheck, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
	SSLMode  string
}

func (pgcfg *PGCfg) ConnString() string {
	connStr := fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
	if pgcfg.SSLMode != "" {
		connStr += "?sslmode=" + pgcfg.SSLMode
	}
	return connStr
}
