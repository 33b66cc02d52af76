package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/streaks/internal/error_values"
	"github.com/limbo/streaks/pkg/calendar"
	"github.com/limbo/streaks/pkg/entity"
)

type HabitChecksRepository struct {
	conn PgConnection
}

func NewHabitChecksRepo(conn PgConnection) *HabitChecksRepository {
	return &HabitChecksRepository{
		conn: conn,
	}
}

// Create relies on UNIQUE (habit_id, check_date): a concurrent insert of the same day
// surfaces as ErrCheckExist instead of a second row.
func (checksRepo *HabitChecksRepository) Create(ctx context.Context, habitID uuid.UUID, day calendar.Day) error {
	_, err := checksRepo.conn.Exec(
		ctx,
		`INSERT INTO habit_checks (habit_id, check_date) VALUES ($1, $2);`,
		habitID,
		day.Time(),
	)
	if err != nil {
		switch {
		case isPgError(err, pgUniqueViolation):
			return errorvalues.ErrCheckExist
		case isPgError(err, pgForeignKeyViolation):
			return errorvalues.ErrHabitNotFound
		}
		return errors.New("creating check error: " + err.Error())
	}
	return nil
}

func (checksRepo *HabitChecksRepository) Delete(ctx context.Context, habitID uuid.UUID, day calendar.Day) (int64, error) {
	ct, err := checksRepo.conn.Exec(
		ctx,
		`DELETE FROM habit_checks WHERE habit_id = $1 AND check_date = $2;`,
		habitID,
		day.Time(),
	)
	if err != nil {
		return 0, errors.New("deleting check error: " + err.Error())
	}
	return ct.RowsAffected(), nil
}

func (checksRepo *HabitChecksRepository) Exists(ctx context.Context, habitID uuid.UUID, day calendar.Day) (bool, error) {
	var exists bool
	row := checksRepo.conn.QueryRow(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM habit_checks WHERE habit_id = $1 AND check_date = $2);`,
		habitID,
		day.Time(),
	)
	if err := row.Scan(&exists); err != nil {
		return false, errors.New("inspecting if check exists error: " + err.Error())
	}
	return exists, nil
}

func (checksRepo *HabitChecksRepository) ListDates(ctx context.Context, habitID uuid.UUID) ([]calendar.Day, error) {
	rows, err := checksRepo.conn.Query(
		ctx,
		`SELECT check_date FROM habit_checks WHERE habit_id = $1 ORDER BY check_date ASC;`,
		habitID,
	)
	if err != nil {
		return nil, errors.New("listing check dates error: " + err.Error())
	}
	defer rows.Close()
	days := make([]calendar.Day, 0)
	for rows.Next() {
		var date time.Time
		if err = rows.Scan(&date); err != nil {
			return nil, errors.New("check date parsing error: " + err.Error())
		}
		days = append(days, calendar.DayOf(date))
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected check dates rows error: " + err.Error())
	}
	return days, nil
}

func (checksRepo *HabitChecksRepository) GetByHabitAndDateRange(ctx context.Context, habitID uuid.UUID, from, to *calendar.Day) ([]entity.HabitCheck, error) {
	rows, err := checksRepo.conn.Query(
		ctx,
		`SELECT id, habit_id, check_date, created_at FROM habit_checks
		WHERE habit_id = $1 AND ($2::date IS NULL OR check_date >= $2) AND ($3::date IS NULL OR check_date <= $3)
		ORDER BY check_date ASC;`,
		habitID,
		dayArg(from),
		dayArg(to),
	)
	if err != nil {
		return nil, errors.New("getting checks for period error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.HabitCheck, 0)
	for rows.Next() {
		var (
			check entity.HabitCheck
			date  time.Time
		)
		if err = rows.Scan(&check.ID, &check.HabitID, &date, &check.CreatedAt); err != nil {
			return nil, errors.New("check row parsing error: " + err.Error())
		}
		check.CheckDate = calendar.DayOf(date)
		result = append(result, check)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected check rows error: " + err.Error())
	}
	return result, nil
}
