package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository/base"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/jackc/pgx/v5"
)

const availabilityColumns = `id, host_id, program_id, date, start_minute, end_minute, status, created_at`

type AvailabilityRepository struct {
	db base.DBTX
}

func NewAvailabilityRepository(db base.DBTX) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Create сохраняет окно доступности
func (r *AvailabilityRepository) Create(ctx context.Context, a *model.Availability) error {
	query := `
		INSERT INTO availabilities (host_id, program_id, date, start_minute, end_minute, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		a.HostID,
		a.ProgramID,
		a.Date,
		int(a.StartTime),
		int(a.EndTime),
		a.Status,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		return fmt.Errorf("create availability: %w", err)
	}

	return nil
}

// GetByID получает окно по ID
func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*model.Availability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availabilities WHERE id = $1`

	a, err := scanAvailability(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability by id: %w", err)
	}

	return a, nil
}

// List выбирает окна по фильтру
func (r *AvailabilityRepository) List(ctx context.Context, f AvailabilityFilter) ([]*model.Availability, error) {
	conds := []string{"host_id = $1"}
	args := []any{f.HostID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ProgramID != nil {
		add("program_id = $%d", *f.ProgramID)
	}
	if f.Date != nil {
		add("date = $%d", *f.Date)
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date <= $%d", *f.To)
	}
	if f.Status != nil {
		add("status = $%d", *f.Status)
	}

	query := `SELECT ` + availabilityColumns + ` FROM availabilities WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY date, start_minute`

	return r.query(ctx, query, args...)
}

// ListByProgram получает все окна программы
func (r *AvailabilityRepository) ListByProgram(ctx context.Context, programID int64) ([]*model.Availability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availabilities WHERE program_id = $1 ORDER BY date, start_minute`
	return r.query(ctx, query, programID)
}

// UpdateStatus меняет статус окна
func (r *AvailabilityRepository) UpdateStatus(ctx context.Context, id int64, status model.AvailabilityStatus) error {
	affected, err := base.ExecAffected(ctx, r.db, `UPDATE availabilities SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update availability status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update availability %d: %w", id, ErrNotUpdated)
	}
	return nil
}

// DeactivateInRange закрывает все окна хоста в диапазоне дат
func (r *AvailabilityRepository) DeactivateInRange(ctx context.Context, hostID int64, from, to time.Time) (int64, error) {
	query := `
		UPDATE availabilities
		SET status = 'inactive'
		WHERE host_id = $1 AND date BETWEEN $2 AND $3 AND status = 'active'
	`

	affected, err := base.ExecAffected(ctx, r.db, query, hostID, from, to)
	if err != nil {
		return 0, fmt.Errorf("deactivate availabilities: %w", err)
	}
	return affected, nil
}

// Delete удаляет окно вместе со сгенерированными встречами
func (r *AvailabilityRepository) Delete(ctx context.Context, id int64) error {
	affected, err := base.ExecAffected(ctx, r.db, `DELETE FROM availabilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete availability %d: %w", id, ErrNotUpdated)
	}
	return nil
}

// DeleteByProgram удаляет все окна программы
func (r *AvailabilityRepository) DeleteByProgram(ctx context.Context, programID int64) (int64, error) {
	affected, err := base.ExecAffected(ctx, r.db, `DELETE FROM availabilities WHERE program_id = $1`, programID)
	if err != nil {
		return 0, fmt.Errorf("delete program availabilities: %w", err)
	}
	return affected, nil
}

func (r *AvailabilityRepository) query(ctx context.Context, query string, args ...any) ([]*model.Availability, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	defer rows.Close()

	var list []*model.Availability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		list = append(list, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availabilities: %w", err)
	}

	return list, nil
}

func scanAvailability(row pgx.Row) (*model.Availability, error) {
	var (
		a          model.Availability
		start, end int
	)
	err := row.Scan(
		&a.ID,
		&a.HostID,
		&a.ProgramID,
		&a.Date,
		&start,
		&end,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.StartTime = timewindow.TimeOfDay(start)
	a.EndTime = timewindow.TimeOfDay(end)
	return &a, nil
}
