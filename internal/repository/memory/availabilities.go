package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
)

type availabilities struct{ s *Store }

func (r *availabilities) Create(_ context.Context, a *model.Availability) error {
	defer r.s.lock()()
	if err := r.s.fail("availabilities.Create"); err != nil {
		return err
	}
	if _, ok := r.s.data.programs[a.ProgramID]; !ok {
		return fmt.Errorf("create availability: program %d does not exist", a.ProgramID)
	}
	a.ID = r.s.id()
	a.CreatedAt = time.Now()
	r.s.data.availabilities[a.ID] = copyOf(a)
	return nil
}

func (r *availabilities) GetByID(_ context.Context, id int64) (*model.Availability, error) {
	defer r.s.lock()()
	return copyOf(r.s.data.availabilities[id]), nil
}

func (r *availabilities) List(_ context.Context, f repository.AvailabilityFilter) ([]*model.Availability, error) {
	defer r.s.lock()()
	return r.collect(func(a *model.Availability) bool {
		switch {
		case a.HostID != f.HostID:
			return false
		case f.ProgramID != nil && a.ProgramID != *f.ProgramID:
			return false
		case f.Date != nil && !a.Date.Equal(*f.Date):
			return false
		case f.From != nil && a.Date.Before(*f.From):
			return false
		case f.To != nil && a.Date.After(*f.To):
			return false
		case f.Status != nil && a.Status != *f.Status:
			return false
		}
		return true
	}), nil
}

func (r *availabilities) ListByProgram(_ context.Context, programID int64) ([]*model.Availability, error) {
	defer r.s.lock()()
	return r.collect(func(a *model.Availability) bool { return a.ProgramID == programID }), nil
}

func (r *availabilities) UpdateStatus(_ context.Context, id int64, status model.AvailabilityStatus) error {
	defer r.s.lock()()
	if err := r.s.fail("availabilities.UpdateStatus"); err != nil {
		return err
	}
	a, ok := r.s.data.availabilities[id]
	if !ok {
		return fmt.Errorf("update availability %d: %w", id, repository.ErrNotUpdated)
	}
	a.Status = status
	return nil
}

func (r *availabilities) DeactivateInRange(_ context.Context, hostID int64, from, to time.Time) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, a := range r.s.data.availabilities {
		if a.HostID == hostID && a.IsActive() && inRange(a.Date, from, to) {
			a.Status = model.AvailabilityStatusInactive
			n++
		}
	}
	return n, nil
}

func (r *availabilities) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.availabilities[id]; !ok {
		return fmt.Errorf("delete availability %d: %w", id, repository.ErrNotUpdated)
	}
	r.s.data.deleteAvailability(id)
	return nil
}

func (r *availabilities) DeleteByProgram(_ context.Context, programID int64) (int64, error) {
	defer r.s.lock()()
	if err := r.s.fail("availabilities.DeleteByProgram"); err != nil {
		return 0, err
	}
	var n int64
	for id, a := range r.s.data.availabilities {
		if a.ProgramID == programID {
			r.s.data.deleteAvailability(id)
			n++
		}
	}
	return n, nil
}

func (r *availabilities) collect(match func(*model.Availability) bool) []*model.Availability {
	var out []*model.Availability
	for _, a := range r.s.data.availabilities {
		if match(a) {
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
	return out
}

func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}
