package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
)

type users struct{ s *Store }

func (r *users) Create(_ context.Context, user *model.User) error {
	defer r.s.lock()()
	if err := r.s.fail("users.Create"); err != nil {
		return err
	}
	for _, u := range r.s.data.users {
		if u.TelegramID == user.TelegramID {
			return fmt.Errorf("create user: %w", repository.ErrDuplicate)
		}
	}
	user.ID = r.s.id()
	user.CreatedAt = time.Now()
	r.s.data.users[user.ID] = copyOf(user)
	return nil
}

func (r *users) Update(_ context.Context, user *model.User) error {
	defer r.s.lock()()
	if _, ok := r.s.data.users[user.ID]; !ok {
		return fmt.Errorf("update user %d: %w", user.ID, repository.ErrNotUpdated)
	}
	r.s.data.users[user.ID] = copyOf(user)
	return nil
}

func (r *users) GetByID(_ context.Context, id int64) (*model.User, error) {
	defer r.s.lock()()
	return copyOf(r.s.data.users[id]), nil
}

func (r *users) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.data.users {
		if u.TelegramID == telegramID {
			return copyOf(u), nil
		}
	}
	return nil, nil
}

func (r *users) GetByIDs(_ context.Context, ids []int64) ([]*model.User, error) {
	defer r.s.lock()()
	out := []*model.User{}
	for _, id := range ids {
		if u, ok := r.s.data.users[id]; ok {
			out = append(out, copyOf(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LockByID в памяти достаточно мьютекса транзакции; блокировка только пишется в журнал
func (r *users) LockByID(_ context.Context, id int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.users[id]; !ok {
		return fmt.Errorf("lock user %d: not found", id)
	}
	r.s.recordLock("user", id)
	return nil
}
