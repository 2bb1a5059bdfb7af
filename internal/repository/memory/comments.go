package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
)

type comments struct{ s *Store }

func (r *comments) Create(_ context.Context, c *model.AppointmentComment) error {
	defer r.s.lock()()
	if _, ok := r.s.data.appointments[c.AppointmentID]; !ok {
		return fmt.Errorf("create comment: appointment %d does not exist", c.AppointmentID)
	}
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	r.s.data.comments[c.ID] = copyOf(c)
	return nil
}

func (r *comments) GetByID(_ context.Context, id int64) (*model.AppointmentComment, error) {
	defer r.s.lock()()
	return copyOf(r.s.data.comments[id]), nil
}

func (r *comments) ListByAppointment(_ context.Context, appointmentID int64) ([]*model.AppointmentComment, error) {
	defer r.s.lock()()
	var out []*model.AppointmentComment
	for _, c := range r.s.data.comments {
		if c.AppointmentID == appointmentID {
			out = append(out, copyOf(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *comments) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.comments[id]; !ok {
		return fmt.Errorf("delete comment %d: %w", id, repository.ErrNotUpdated)
	}
	delete(r.s.data.comments, id)
	return nil
}

type feedback struct{ s *Store }

func (r *feedback) GetByAppointment(_ context.Context, appointmentID int64) (*model.Feedback, error) {
	defer r.s.lock()()
	return copyOf(r.s.data.feedback[appointmentID]), nil
}

func (r *feedback) Upsert(_ context.Context, f *model.Feedback, side model.Participant) error {
	if side != model.ParticipantAttendee && side != model.ParticipantHost {
		return fmt.Errorf("upsert feedback: unknown side %d", side)
	}

	defer r.s.lock()()
	stored, ok := r.s.data.feedback[f.AppointmentID]
	if !ok {
		stored = &model.Feedback{ID: r.s.id(), AppointmentID: f.AppointmentID, HostID: f.HostID, AttendeeID: f.AttendeeID}
		r.s.data.feedback[f.AppointmentID] = stored
	}

	switch side {
	case model.ParticipantAttendee:
		stored.AttendeeID = f.AttendeeID
		stored.AttendeeRating = f.AttendeeRating
		stored.AttendeeNotes = f.AttendeeNotes
	case model.ParticipantHost:
		stored.HostRating = f.HostRating
		stored.HostNotes = f.HostNotes
	}
	stored.UpdatedAt = time.Now()

	f.ID, f.UpdatedAt = stored.ID, stored.UpdatedAt
	return nil
}
