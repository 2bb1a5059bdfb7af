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

const appointmentColumns = `id, host_id, attendee_id, availability_id, program_id, date, start_minute, end_minute,
	status, notes, physical_location, meeting_url, event_id, created_at, updated_at`

type AppointmentRepository struct {
	db base.DBTX
}

func NewAppointmentRepository(db base.DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// CreateBatch вставляет встречи одним батчем и заполняет их ID
func (r *AppointmentRepository) CreateBatch(ctx context.Context, appointments []*model.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	query := `
		INSERT INTO appointments (host_id, attendee_id, availability_id, program_id, date, start_minute, end_minute,
			status, notes, physical_location, meeting_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	batch := &pgx.Batch{}
	for _, a := range appointments {
		batch.Queue(query,
			a.HostID,
			a.AttendeeID,
			a.AvailabilityID,
			a.ProgramID,
			a.Date,
			int(a.StartTime),
			int(a.EndTime),
			a.Status,
			a.Notes,
			a.PhysicalLocation,
			a.MeetingURL,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	for _, a := range appointments {
		if err := results.QueryRow().Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			_ = results.Close()
			return fmt.Errorf("create appointment: %w", err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("create appointments: %w", err)
	}

	return nil
}

// GetByID получает встречу по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	return r.get(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
}

// GetForUpdate получает встречу и блокирует строку до конца транзакции
func (r *AppointmentRepository) GetForUpdate(ctx context.Context, id int64) (*model.Appointment, error) {
	return r.get(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 FOR UPDATE`, id)
}

// Update сохраняет изменяемые поля встречи
func (r *AppointmentRepository) Update(ctx context.Context, a *model.Appointment) error {
	query := `
		UPDATE appointments
		SET attendee_id = $1, status = $2, notes = $3, physical_location = $4, meeting_url = $5, event_id = $6,
			updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		a.AttendeeID,
		a.Status,
		a.Notes,
		a.PhysicalLocation,
		a.MeetingURL,
		a.EventID,
		a.ID,
	).Scan(&a.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update appointment %d: %w", a.ID, ErrNotUpdated)
		}
		return fmt.Errorf("update appointment: %w", err)
	}

	return nil
}

// SetEventID сохраняет id события во внешнем календаре
func (r *AppointmentRepository) SetEventID(ctx context.Context, id int64, eventID *string) error {
	_, err := r.db.Exec(ctx, `UPDATE appointments SET event_id = $1, updated_at = now() WHERE id = $2`, eventID, id)
	if err != nil {
		return fmt.Errorf("set appointment event id: %w", err)
	}
	return nil
}

// Delete удаляет встречу; комментарии и отзыв удаляются каскадом
func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	affected, err := base.ExecAffected(ctx, r.db, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete appointment %d: %w", id, ErrNotUpdated)
	}
	return nil
}

// List выбирает встречи по фильтру в хронологическом порядке
func (r *AppointmentRepository) List(ctx context.Context, f AppointmentFilter) ([]*model.Appointment, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.HostID != nil {
		add("host_id = $%d", *f.HostID)
	}
	if f.AttendeeID != nil {
		add("attendee_id = $%d", *f.AttendeeID)
	}
	if f.ProgramID != nil {
		add("program_id = $%d", *f.ProgramID)
	}
	if len(f.Statuses) > 0 {
		add("status = ANY($%d)", statusStrings(f.Statuses))
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date <= $%d", *f.To)
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date, start_minute, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var list []*model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return list, nil
}

// CountByHost считает встречи хоста в заданных статусах за диапазон дат
func (r *AppointmentRepository) CountByHost(ctx context.Context, hostID int64, statuses []model.AppointmentStatus, from, to time.Time) (int, error) {
	query := `
		SELECT count(*)
		FROM appointments
		WHERE host_id = $1 AND status = ANY($2) AND date BETWEEN $3 AND $4
	`

	var count int
	if err := r.db.QueryRow(ctx, query, hostID, statusStrings(statuses), from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return count, nil
}

// SetStatusByAvailability переводит встречи окна из статуса from в to
func (r *AppointmentRepository) SetStatusByAvailability(ctx context.Context, availabilityID int64, from, to model.AppointmentStatus) (int64, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = now()
		WHERE availability_id = $2 AND status = $3
	`

	affected, err := base.ExecAffected(ctx, r.db, query, to, availabilityID, from)
	if err != nil {
		return 0, fmt.Errorf("set appointments status: %w", err)
	}
	return affected, nil
}

// DeactivatePostedInRange закрывает свободные слоты хоста в диапазоне дат
func (r *AppointmentRepository) DeactivatePostedInRange(ctx context.Context, hostID int64, from, to time.Time) (int64, error) {
	query := `
		UPDATE appointments
		SET status = 'inactive', updated_at = now()
		WHERE host_id = $1 AND status = 'posted' AND date BETWEEN $2 AND $3
	`

	affected, err := base.ExecAffected(ctx, r.db, query, hostID, from, to)
	if err != nil {
		return 0, fmt.Errorf("deactivate posted appointments: %w", err)
	}
	return affected, nil
}

func (r *AppointmentRepository) get(ctx context.Context, query string, id int64) (*model.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var (
		a          model.Appointment
		start, end int
	)
	err := row.Scan(
		&a.ID,
		&a.HostID,
		&a.AttendeeID,
		&a.AvailabilityID,
		&a.ProgramID,
		&a.Date,
		&start,
		&end,
		&a.Status,
		&a.Notes,
		&a.PhysicalLocation,
		&a.MeetingURL,
		&a.EventID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.StartTime = timewindow.TimeOfDay(start)
	a.EndTime = timewindow.TimeOfDay(end)
	return &a, nil
}

func statusStrings(statuses []model.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
