package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"go.uber.org/zap"
)

type FeedbackService struct {
	store  repository.Store
	clock  timewindow.Clock
	logger *zap.Logger
}

func NewFeedbackService(store repository.Store, clock timewindow.Clock, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{store: store, clock: clock, logger: logger}
}

// SubmitFeedback записывает оценку стороны actorID; вторая сторона не меняется
func (s *FeedbackService) SubmitFeedback(ctx context.Context, appointmentID, actorID int64, in FeedbackInput) (*model.Feedback, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	appt, err := requireAppointment(ctx, s.store, appointmentID, false)
	if err != nil {
		return nil, err
	}
	side := appt.ParticipantOf(actorID)
	if side == model.ParticipantNone {
		return nil, ErrNotParticipant
	}
	if !s.happened(appt) {
		return nil, validationf("feedback is accepted after the meeting")
	}

	rating := in.Rating
	f := &model.Feedback{
		AppointmentID: appointmentID,
		AttendeeID:    appt.AttendeeID,
		HostID:        appt.HostID,
	}
	notes := strings.TrimSpace(in.Notes)
	if side == model.ParticipantHost {
		f.HostRating, f.HostNotes = &rating, notes
	} else {
		f.AttendeeRating, f.AttendeeNotes = &rating, notes
	}

	if err := s.store.Feedback().Upsert(ctx, f, side); err != nil {
		return nil, fmt.Errorf("upsert feedback: %w", err)
	}

	s.logger.Info("Feedback submitted",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("actor_id", actorID),
		zap.Int("rating", rating))

	return s.store.Feedback().GetByAppointment(ctx, appointmentID)
}

// GetFeedback отзыв по встрече; nil, если его ещё нет
func (s *FeedbackService) GetFeedback(ctx context.Context, appointmentID, viewerID int64) (*model.Feedback, error) {
	appt, err := requireAppointment(ctx, s.store, appointmentID, false)
	if err != nil {
		return nil, err
	}
	if appt.ParticipantOf(viewerID) == model.ParticipantNone {
		return nil, ErrNotParticipant
	}
	return s.store.Feedback().GetByAppointment(ctx, appointmentID)
}

func (s *FeedbackService) happened(a *model.Appointment) bool {
	switch a.Status {
	case model.AppointmentStatusCompleted, model.AppointmentStatusMissed:
		return true
	case model.AppointmentStatusReserved:
		now := s.clock.Now()
		return !a.EndsAt(now.Location()).After(now)
	default:
		return false
	}
}
