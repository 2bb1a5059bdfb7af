package model

import (
	"slices"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
)

type AppointmentStatus string

const (
	AppointmentStatusPosted    AppointmentStatus = "posted"
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusReserved  AppointmentStatus = "reserved"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusInactive  AppointmentStatus = "inactive"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusMissed    AppointmentStatus = "missed"
)

// Допустимые переходы статусов встречи.
// reserved/pending -> posted: отмена с возвратом слота в продажу,
// -> inactive: то же, но окно слота выключено.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPosted:   {AppointmentStatusPending, AppointmentStatusReserved, AppointmentStatusInactive},
	AppointmentStatusInactive: {AppointmentStatusPosted},
	AppointmentStatusPending:  {AppointmentStatusReserved, AppointmentStatusRejected, AppointmentStatusCanceled, AppointmentStatusPosted, AppointmentStatusInactive},
	AppointmentStatusReserved: {AppointmentStatusCompleted, AppointmentStatusMissed, AppointmentStatusCanceled, AppointmentStatusPosted, AppointmentStatusInactive},
}

var appointmentStatuses = []AppointmentStatus{
	AppointmentStatusPosted,
	AppointmentStatusPending,
	AppointmentStatusReserved,
	AppointmentStatusRejected,
	AppointmentStatusInactive,
	AppointmentStatusCanceled,
	AppointmentStatusCompleted,
	AppointmentStatusMissed,
}

// AppointmentStatusesWhere статусы встречи, для которых keep вернул true
func AppointmentStatusesWhere(keep func(AppointmentStatus) bool) []AppointmentStatus {
	var out []AppointmentStatus
	for _, s := range appointmentStatuses {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func (s AppointmentStatus) Valid() bool {
	return slices.Contains(appointmentStatuses, s)
}

// CanTransition проверяет допустимость перехода s -> to
func (s AppointmentStatus) CanTransition(to AppointmentStatus) bool {
	for _, next := range appointmentTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal true для статусов без исходящих переходов
func (s AppointmentStatus) IsTerminal() bool {
	return s.Valid() && len(appointmentTransitions[s]) == 0
}

// CountsTowardQuota встречи, занимающие лимит хоста
func (s AppointmentStatus) CountsTowardQuota() bool {
	return s == AppointmentStatusReserved || s == AppointmentStatusPending
}

// Participant отношение пользователя к конкретной встрече
type Participant int

const (
	ParticipantNone Participant = iota
	ParticipantHost
	ParticipantAttendee
)

type Appointment struct {
	ID               int64                `json:"id"`
	HostID           int64                `json:"host_id"`
	AttendeeID       *int64               `json:"attendee_id"`
	AvailabilityID   int64                `json:"availability_id"`
	ProgramID        int64                `json:"program_id"`
	Date             time.Time            `json:"date"`
	StartTime        timewindow.TimeOfDay `json:"start_time"`
	EndTime          timewindow.TimeOfDay `json:"end_time"`
	Status           AppointmentStatus    `json:"status"`
	Notes            string               `json:"notes"`
	PhysicalLocation string               `json:"physical_location"`
	MeetingURL       string               `json:"meeting_url"`
	EventID          *string              `json:"event_id"` // id события во внешнем календаре
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`

	// Заполняются сервисом для уведомлений
	Program  *Program `json:"program,omitempty"`
	Host     *User    `json:"host,omitempty"`
	Attendee *User    `json:"attendee,omitempty"`
}

func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	return timewindow.Combine(a.Date, a.StartTime, loc)
}

func (a *Appointment) EndsAt(loc *time.Location) time.Time {
	return timewindow.Combine(a.Date, a.EndTime, loc)
}

// ParticipantOf определяет роль пользователя во встрече
func (a *Appointment) ParticipantOf(userID int64) Participant {
	switch {
	case a.HostID == userID:
		return ParticipantHost
	case a.AttendeeID != nil && *a.AttendeeID == userID:
		return ParticipantAttendee
	default:
		return ParticipantNone
	}
}
