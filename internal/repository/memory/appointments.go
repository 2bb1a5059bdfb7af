package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
)

type appointments struct{ s *Store }

func (r *appointments) CreateBatch(_ context.Context, list []*model.Appointment) error {
	defer r.s.lock()()
	if err := r.s.fail("appointments.CreateBatch"); err != nil {
		return err
	}
	now := time.Now()
	for _, a := range list {
		if _, ok := r.s.data.availabilities[a.AvailabilityID]; !ok {
			return fmt.Errorf("create appointment: availability %d does not exist", a.AvailabilityID)
		}
		a.ID = r.s.id()
		a.CreatedAt, a.UpdatedAt = now, now
		r.s.data.appointments[a.ID] = stripped(a)
	}
	return nil
}

func (r *appointments) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	defer r.s.lock()()
	return copyOf(r.s.data.appointments[id]), nil
}

// GetForUpdate совпадает с GetByID (транзакции сериализованы), плюс запись в журнал блокировок
func (r *appointments) GetForUpdate(_ context.Context, id int64) (*model.Appointment, error) {
	defer r.s.lock()()
	a, ok := r.s.data.appointments[id]
	if ok {
		r.s.recordLock("appointment", id)
	}
	return copyOf(a), nil
}

func (r *appointments) Update(_ context.Context, a *model.Appointment) error {
	defer r.s.lock()()
	if err := r.s.fail("appointments.Update"); err != nil {
		return err
	}
	stored, ok := r.s.data.appointments[a.ID]
	if !ok {
		return fmt.Errorf("update appointment %d: %w", a.ID, repository.ErrNotUpdated)
	}
	stored.AttendeeID = a.AttendeeID
	stored.Status = a.Status
	stored.Notes = a.Notes
	stored.PhysicalLocation = a.PhysicalLocation
	stored.MeetingURL = a.MeetingURL
	stored.EventID = a.EventID
	stored.UpdatedAt = time.Now()
	a.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *appointments) SetEventID(_ context.Context, id int64, eventID *string) error {
	defer r.s.lock()()
	if a, ok := r.s.data.appointments[id]; ok {
		a.EventID = eventID
	}
	return nil
}

func (r *appointments) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.appointments[id]; !ok {
		return fmt.Errorf("delete appointment %d: %w", id, repository.ErrNotUpdated)
	}
	r.s.data.deleteAppointment(id)
	return nil
}

func (r *appointments) List(_ context.Context, f repository.AppointmentFilter) ([]*model.Appointment, error) {
	defer r.s.lock()()
	var out []*model.Appointment
	for _, a := range r.s.data.appointments {
		if matches(a, f) {
			out = append(out, copyOf(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *appointments) CountByHost(_ context.Context, hostID int64, statuses []model.AppointmentStatus, from, to time.Time) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, a := range r.s.data.appointments {
		if a.HostID == hostID && slices.Contains(statuses, a.Status) && inRange(a.Date, from, to) {
			n++
		}
	}
	return n, nil
}

func (r *appointments) SetStatusByAvailability(_ context.Context, availabilityID int64, from, to model.AppointmentStatus) (int64, error) {
	defer r.s.lock()()
	if err := r.s.fail("appointments.SetStatusByAvailability"); err != nil {
		return 0, err
	}
	var n int64
	for _, a := range r.s.data.appointments {
		if a.AvailabilityID == availabilityID && a.Status == from {
			a.Status = to
			n++
		}
	}
	return n, nil
}

func (r *appointments) DeactivatePostedInRange(_ context.Context, hostID int64, from, to time.Time) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, a := range r.s.data.appointments {
		if a.HostID == hostID && a.Status == model.AppointmentStatusPosted && inRange(a.Date, from, to) {
			a.Status = model.AppointmentStatusInactive
			n++
		}
	}
	return n, nil
}

func matches(a *model.Appointment, f repository.AppointmentFilter) bool {
	switch {
	case f.HostID != nil && a.HostID != *f.HostID:
		return false
	case f.AttendeeID != nil && (a.AttendeeID == nil || *a.AttendeeID != *f.AttendeeID):
		return false
	case f.ProgramID != nil && a.ProgramID != *f.ProgramID:
		return false
	case len(f.Statuses) > 0 && !slices.Contains(f.Statuses, a.Status):
		return false
	case f.From != nil && a.Date.Before(*f.From):
		return false
	case f.To != nil && a.Date.After(*f.To):
		return false
	}
	return true
}

// stripped копия без связанных объектов, которые заполняет сервис
func stripped(a *model.Appointment) *model.Appointment {
	c := copyOf(a)
	c.Program, c.Host, c.Attendee = nil, nil, nil
	return c
}
