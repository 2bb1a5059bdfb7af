package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
)

type programs struct{ s *Store }

func (r *programs) Create(_ context.Context, p *model.Program) error {
	defer r.s.lock()()
	if err := r.s.fail("programs.Create"); err != nil {
		return err
	}
	if r.duplicate(p) {
		return fmt.Errorf("create program %q: %w", p.Name, repository.ErrDuplicate)
	}
	p.ID = r.s.id()
	p.CreatedAt = time.Now()
	r.s.data.programs[p.ID] = copyOf(p)
	return nil
}

func (r *programs) Update(_ context.Context, p *model.Program) error {
	defer r.s.lock()()
	if _, ok := r.s.data.programs[p.ID]; !ok {
		return fmt.Errorf("update program %d: %w", p.ID, repository.ErrNotUpdated)
	}
	if r.duplicate(p) {
		return fmt.Errorf("update program %q: %w", p.Name, repository.ErrDuplicate)
	}
	r.s.data.programs[p.ID] = copyOf(p)
	return nil
}

func (r *programs) GetByID(_ context.Context, id int64) (*model.Program, error) {
	defer r.s.lock()()
	return copyOf(r.s.data.programs[id]), nil
}

func (r *programs) ListByHost(_ context.Context, hostID int64) ([]*model.Program, error) {
	defer r.s.lock()()
	var out []*model.Program
	for _, p := range r.s.data.programs {
		if p.HostID == hostID {
			out = append(out, copyOf(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *programs) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.programs[id]; !ok {
		return fmt.Errorf("delete program %d: %w", id, repository.ErrNotUpdated)
	}
	delete(r.s.data.programs, id)
	for aid, a := range r.s.data.availabilities {
		if a.ProgramID == id {
			r.s.data.deleteAvailability(aid)
		}
	}
	for aid, a := range r.s.data.appointments {
		if a.ProgramID == id {
			r.s.data.deleteAppointment(aid)
		}
	}
	return nil
}

func (r *programs) duplicate(p *model.Program) bool {
	for _, other := range r.s.data.programs {
		if other.ID != p.ID && other.HostID == p.HostID &&
			groupKey(other.GroupID) == groupKey(p.GroupID) &&
			strings.EqualFold(other.Name, p.Name) {
			return true
		}
	}
	return false
}

func groupKey(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
