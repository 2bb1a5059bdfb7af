package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository/base"
)

type FeedbackRepository struct {
	db base.DBTX
}

func NewFeedbackRepository(db base.DBTX) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) GetByAppointment(ctx context.Context, appointmentID int64) (*model.Feedback, error) {
	query := `
		SELECT id, appointment_id, attendee_id, host_id, attendee_rating, attendee_notes, host_rating, host_notes, updated_at
		FROM feedback
		WHERE appointment_id = $1
	`

	var f model.Feedback
	err := r.db.QueryRow(ctx, query, appointmentID).Scan(
		&f.ID,
		&f.AppointmentID,
		&f.AttendeeID,
		&f.HostID,
		&f.AttendeeRating,
		&f.AttendeeNotes,
		&f.HostRating,
		&f.HostNotes,
		&f.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	return &f, nil
}

// Upsert создаёт строку отзыва или обновляет только сторону side.
// Отзыв один на встречу: повторная отправка перезаписывает оценку.
func (r *FeedbackRepository) Upsert(ctx context.Context, f *model.Feedback, side model.Participant) error {
	var query string
	var rating *int
	var notes string

	switch side {
	case model.ParticipantAttendee:
		rating, notes = f.AttendeeRating, f.AttendeeNotes
		query = `
			INSERT INTO feedback (appointment_id, attendee_id, host_id, attendee_rating, attendee_notes)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (appointment_id) DO UPDATE
			SET attendee_id = EXCLUDED.attendee_id, attendee_rating = EXCLUDED.attendee_rating,
				attendee_notes = EXCLUDED.attendee_notes, updated_at = now()
			RETURNING id, updated_at
		`
	case model.ParticipantHost:
		rating, notes = f.HostRating, f.HostNotes
		query = `
			INSERT INTO feedback (appointment_id, attendee_id, host_id, host_rating, host_notes)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (appointment_id) DO UPDATE
			SET host_rating = EXCLUDED.host_rating, host_notes = EXCLUDED.host_notes, updated_at = now()
			RETURNING id, updated_at
		`
	default:
		return fmt.Errorf("upsert feedback: unknown side %d", side)
	}

	err := r.db.QueryRow(ctx, query, f.AppointmentID, f.AttendeeID, f.HostID, rating, notes).Scan(&f.ID, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert feedback: %w", err)
	}
	return nil
}
