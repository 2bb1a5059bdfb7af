// Package memory реализует repository.Store в памяти процесса.
// Транзакция работает на копии данных и подменяет их при успешном завершении.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
)

type shared struct {
	mu       sync.Mutex
	failures map[string]error
	locks    []string // журнал построчных блокировок в порядке взятия
}

type data struct {
	nextID         int64
	users          map[int64]*model.User
	programs       map[int64]*model.Program
	availabilities map[int64]*model.Availability
	appointments   map[int64]*model.Appointment
	comments       map[int64]*model.AppointmentComment
	feedback       map[int64]*model.Feedback // по appointment_id
}

type Store struct {
	sh   *shared
	data *data
	inTx bool
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		sh: &shared{failures: make(map[string]error)},
		data: &data{
			users:          make(map[int64]*model.User),
			programs:       make(map[int64]*model.Program),
			availabilities: make(map[int64]*model.Availability),
			appointments:   make(map[int64]*model.Appointment),
			comments:       make(map[int64]*model.AppointmentComment),
			feedback:       make(map[int64]*model.Feedback),
		},
	}
}

// InjectFailure заставляет следующий вызов операции op вернуть err.
// Имена операций: "appointments.CreateBatch", "availabilities.Create" и т.д.
func (s *Store) InjectFailure(op string, err error) {
	if !s.inTx {
		s.sh.mu.Lock()
		defer s.sh.mu.Unlock()
	}
	s.sh.failures[op] = err
}

// Locks журнал блокировок строк: "user:<id>", "appointment:<id>"
func (s *Store) Locks() []string {
	defer s.lock()()
	return append([]string(nil), s.sh.locks...)
}

// ResetLocks очищает журнал блокировок
func (s *Store) ResetLocks() {
	defer s.lock()()
	s.sh.locks = nil
}

func (s *Store) recordLock(kind string, id int64) {
	s.sh.locks = append(s.sh.locks, fmt.Sprintf("%s:%d", kind, id))
}

func (s *Store) Users() repository.Users                   { return &users{s} }
func (s *Store) Programs() repository.Programs             { return &programs{s} }
func (s *Store) Availabilities() repository.Availabilities { return &availabilities{s} }
func (s *Store) Appointments() repository.Appointments     { return &appointments{s} }
func (s *Store) Comments() repository.Comments             { return &comments{s} }
func (s *Store) Feedback() repository.Feedback             { return &feedback{s} }

// InTx сериализует транзакции общим мьютексом
func (s *Store) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if !s.inTx {
		s.sh.mu.Lock()
		defer s.sh.mu.Unlock()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &Store{sh: s.sh, data: s.data.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	*s.data = *tx.data
	return nil
}

// lock берёт мьютекс для одиночной операции вне транзакции
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.sh.mu.Lock()
	return s.sh.mu.Unlock
}

func (s *Store) fail(op string) error {
	if err, ok := s.sh.failures[op]; ok {
		delete(s.sh.failures, op)
		return err
	}
	return nil
}

func (s *Store) id() int64 {
	s.data.nextID++
	return s.data.nextID
}

func (d *data) clone() *data {
	c := &data{
		nextID:         d.nextID,
		users:          make(map[int64]*model.User, len(d.users)),
		programs:       make(map[int64]*model.Program, len(d.programs)),
		availabilities: make(map[int64]*model.Availability, len(d.availabilities)),
		appointments:   make(map[int64]*model.Appointment, len(d.appointments)),
		comments:       make(map[int64]*model.AppointmentComment, len(d.comments)),
		feedback:       make(map[int64]*model.Feedback, len(d.feedback)),
	}
	for k, v := range d.users {
		c.users[k] = copyOf(v)
	}
	for k, v := range d.programs {
		c.programs[k] = copyOf(v)
	}
	for k, v := range d.availabilities {
		c.availabilities[k] = copyOf(v)
	}
	for k, v := range d.appointments {
		c.appointments[k] = copyOf(v)
	}
	for k, v := range d.comments {
		c.comments[k] = copyOf(v)
	}
	for k, v := range d.feedback {
		c.feedback[k] = copyOf(v)
	}
	return c
}

// deleteAppointment удаляет встречу вместе с комментариями и отзывом
func (d *data) deleteAppointment(id int64) {
	delete(d.appointments, id)
	delete(d.feedback, id)
	for cid, c := range d.comments {
		if c.AppointmentID == id {
			delete(d.comments, cid)
		}
	}
}

func (d *data) deleteAvailability(id int64) {
	delete(d.availabilities, id)
	for aid, a := range d.appointments {
		if a.AvailabilityID == id {
			d.deleteAppointment(aid)
		}
	}
}

func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
