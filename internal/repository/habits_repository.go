package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/streaks/internal/error_values"
	"github.com/limbo/streaks/pkg/entity"
)

const habitColumns = `id, user_id, name, description, category, frequency, created_at, updated_at`

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(conn PgConnection) *HabitsRepository {
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	var id uuid.UUID
	row := hr.conn.QueryRow(ctx, `INSERT INTO habits (user_id, name, description, category, frequency)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		habit.UserID,
		habit.Name,
		habit.Description,
		habit.Category,
		string(habit.Frequency),
	)
	if err := row.Scan(&id); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return uuid.Nil, errorvalues.ErrUserNotFound
		}
		return uuid.Nil, errors.New("creating habit db error: " + err.Error())
	}
	return id, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	row := hr.conn.QueryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = $1;`, id)
	habit, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return habit, nil
}

func (hr *HabitsRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(ctx, `SELECT `+habitColumns+` FROM habits WHERE user_id = $1 ORDER BY created_at ASC, id ASC;`, uid)
	if err != nil {
		return nil, errors.New("getting habits by uid error: " + err.Error())
	}
	defer rows.Close()
	habits := make([]*entity.Habit, 0)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, errors.New("unmarshalling habit error: " + err.Error())
		}
		habits = append(habits, h)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning: " + err.Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET name = $1, description = $2, category = $3, frequency = $4, updated_at = NOW()
		WHERE id = $5;`,
		habit.Name, habit.Description, habit.Category, string(habit.Frequency), habit.ID,
	)
	if err != nil {
		return errors.New("error updating habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := hr.conn.Exec(ctx, `DELETE FROM habits WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func scanHabit(row pgx.Row) (*entity.Habit, error) {
	var (
		h         entity.Habit
		frequency string
	)
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Category, &frequency, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	h.Frequency = entity.Frequency(frequency)
	return &h, nil
}
