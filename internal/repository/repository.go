package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
)

var (
	// ErrDuplicate нарушение уникальности (например, имя программы)
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotUpdated запись для обновления не найдена
	ErrNotUpdated = errors.New("record not updated")
)

// Store даёт доступ ко всем репозиториям в рамках одного соединения или транзакции
type Store interface {
	Users() Users
	Programs() Programs
	Availabilities() Availabilities
	Appointments() Appointments
	Comments() Comments
	Feedback() Feedback

	// InTx выполняет fn в транзакции. Ошибка из fn откатывает все изменения.
	InTx(ctx context.Context, fn func(tx Store) error) error
}

type Users interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*model.User, error)
	// LockByID блокирует строку пользователя до конца транзакции
	LockByID(ctx context.Context, id int64) error
}

type Programs interface {
	Create(ctx context.Context, program *model.Program) error
	Update(ctx context.Context, program *model.Program) error
	GetByID(ctx context.Context, id int64) (*model.Program, error)
	ListByHost(ctx context.Context, hostID int64) ([]*model.Program, error)
	Delete(ctx context.Context, id int64) error
}

// AvailabilityFilter условия выборки окон доступности
type AvailabilityFilter struct {
	HostID    int64
	ProgramID *int64
	Date      *time.Time
	From, To  *time.Time
	Status    *model.AvailabilityStatus
}

type Availabilities interface {
	Create(ctx context.Context, availability *model.Availability) error
	GetByID(ctx context.Context, id int64) (*model.Availability, error)
	List(ctx context.Context, filter AvailabilityFilter) ([]*model.Availability, error)
	ListByProgram(ctx context.Context, programID int64) ([]*model.Availability, error)
	UpdateStatus(ctx context.Context, id int64, status model.AvailabilityStatus) error
	// DeactivateInRange переводит в inactive все окна хоста в диапазоне дат (включительно)
	DeactivateInRange(ctx context.Context, hostID int64, from, to time.Time) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByProgram(ctx context.Context, programID int64) (int64, error)
}

// AppointmentFilter условия выборки встреч; нулевые поля не участвуют
type AppointmentFilter struct {
	HostID     *int64
	AttendeeID *int64
	ProgramID  *int64
	Statuses   []model.AppointmentStatus
	From, To   *time.Time
}

type Appointments interface {
	CreateBatch(ctx context.Context, appointments []*model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	// GetForUpdate читает встречу с блокировкой строки до конца транзакции
	GetForUpdate(ctx context.Context, id int64) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	SetEventID(ctx context.Context, id int64, eventID *string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter AppointmentFilter) ([]*model.Appointment, error)
	// CountByHost считает встречи хоста в статусах statuses за даты [from, to]
	CountByHost(ctx context.Context, hostID int64, statuses []model.AppointmentStatus, from, to time.Time) (int, error)
	// SetStatusByAvailability меняет статус from -> to у встреч окна
	SetStatusByAvailability(ctx context.Context, availabilityID int64, from, to model.AppointmentStatus) (int64, error)
	// DeactivatePostedInRange переводит posted -> inactive у встреч хоста за даты [from, to]
	DeactivatePostedInRange(ctx context.Context, hostID int64, from, to time.Time) (int64, error)
}

type Comments interface {
	Create(ctx context.Context, comment *model.AppointmentComment) error
	GetByID(ctx context.Context, id int64) (*model.AppointmentComment, error)
	ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.AppointmentComment, error)
	Delete(ctx context.Context, id int64) error
}

type Feedback interface {
	GetByAppointment(ctx context.Context, appointmentID int64) (*model.Feedback, error)
	// Upsert записывает сторону side, не трогая другую
	Upsert(ctx context.Context, feedback *model.Feedback, side model.Participant) error
}
