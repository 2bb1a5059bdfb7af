package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const programColumns = `id, host_id, group_id, name, description, physical_location, meeting_url, duration,
	auto_approve, max_daily_meetings, max_weekly_meetings, max_monthly_meetings, is_drop_in, is_range_based, created_at`

type ProgramRepository struct {
	db base.DBTX
}

func NewProgramRepository(db base.DBTX) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// Create создаёт новую программу
func (r *ProgramRepository) Create(ctx context.Context, program *model.Program) error {
	query := `
		INSERT INTO programs (host_id, group_id, name, description, physical_location, meeting_url, duration,
			auto_approve, max_daily_meetings, max_weekly_meetings, max_monthly_meetings, is_drop_in, is_range_based)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		program.HostID,
		program.GroupID,
		program.Name,
		program.Description,
		program.PhysicalLocation,
		program.MeetingURL,
		program.Duration,
		program.AutoApprove,
		program.MaxDaily,
		program.MaxWeekly,
		program.MaxMonthly,
		program.IsDropIn,
		program.IsRangeBased,
	).Scan(&program.ID, &program.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create program %q: %w", program.Name, ErrDuplicate)
		}
		return fmt.Errorf("create program: %w", err)
	}

	return nil
}

// Update обновляет настройки программы
func (r *ProgramRepository) Update(ctx context.Context, program *model.Program) error {
	query := `
		UPDATE programs
		SET name = $1, description = $2, physical_location = $3, meeting_url = $4, duration = $5,
			auto_approve = $6, max_daily_meetings = $7, max_weekly_meetings = $8, max_monthly_meetings = $9,
			is_drop_in = $10, is_range_based = $11
		WHERE id = $12
	`

	affected, err := base.ExecAffected(
		ctx, r.db, query,
		program.Name,
		program.Description,
		program.PhysicalLocation,
		program.MeetingURL,
		program.Duration,
		program.AutoApprove,
		program.MaxDaily,
		program.MaxWeekly,
		program.MaxMonthly,
		program.IsDropIn,
		program.IsRangeBased,
		program.ID,
	)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("update program %q: %w", program.Name, ErrDuplicate)
		}
		return fmt.Errorf("update program: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update program %d: %w", program.ID, ErrNotUpdated)
	}

	return nil
}

// GetByID получает программу по ID
func (r *ProgramRepository) GetByID(ctx context.Context, id int64) (*model.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE id = $1`

	program, err := scanProgram(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get program by id: %w", err)
	}

	return program, nil
}

// ListByHost получает все программы хоста
func (r *ProgramRepository) ListByHost(ctx context.Context, hostID int64) ([]*model.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE host_id = $1 ORDER BY name`

	rows, err := r.db.Query(ctx, query, hostID)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var programs []*model.Program
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, program)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}

	return programs, nil
}

// Delete удаляет программу; окна, встречи, комментарии и отзывы удаляются каскадом
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	affected, err := base.ExecAffected(ctx, r.db, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete program %d: %w", id, ErrNotUpdated)
	}
	return nil
}

func scanProgram(row pgx.Row) (*model.Program, error) {
	var p model.Program
	err := row.Scan(
		&p.ID,
		&p.HostID,
		&p.GroupID,
		&p.Name,
		&p.Description,
		&p.PhysicalLocation,
		&p.MeetingURL,
		&p.Duration,
		&p.AutoApprove,
		&p.MaxDaily,
		&p.MaxWeekly,
		&p.MaxMonthly,
		&p.IsDropIn,
		&p.IsRangeBased,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
