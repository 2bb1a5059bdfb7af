package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/calendar"
	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/notify"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
	"github.com/Freeeeeet/officehours_bot/internal/scheduling"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ApprovalDecision решение хоста по заявке
type ApprovalDecision int

const (
	Approve ApprovalDecision = iota + 1
	Reject
)

// AppointmentView выборка встреч для списков в боте
type AppointmentView int

const (
	ViewUpcoming AppointmentView = iota
	ViewPast
	ViewPending
)

type ReservationResult struct {
	Appointment *model.Appointment
	// Notified false, если уведомление не удалось доставить
	Notified bool
}

type CancelResult struct {
	// Appointment состояние слота после отмены; nil при политике delete
	Appointment *model.Appointment
	HostID      int64
	AttendeeID  int64
	CanceledBy  model.Participant
}

type ReservationService struct {
	store    repository.Store
	quota    *QuotaEngine
	clock    timewindow.Clock
	policy   Policy
	notifier notify.Notifier
	syncer   calendar.Syncer
	logger   *zap.Logger
}

// NewReservationService syncer может быть nil: тогда внешний календарь не ведётся
func NewReservationService(
	store repository.Store,
	quota *QuotaEngine,
	clock timewindow.Clock,
	policy Policy,
	notifier notify.Notifier,
	syncer calendar.Syncer,
	logger *zap.Logger,
) *ReservationService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &ReservationService{
		store:    store,
		quota:    quota,
		clock:    clock,
		policy:   policy,
		notifier: notifier,
		syncer:   syncer,
		logger:   logger,
	}
}

// Reserve бронирует posted-слот за участником.
// При отказе по лимиту брони нет: свободные слоты хоста в сработавшем окне выключаются, вызывающий получает *QuotaError.
func (s *ReservationService) Reserve(ctx context.Context, appointmentID, attendeeID int64, notes string) (_ *ReservationResult, err error) {
	ctx, span := startSpan(ctx, "ReservationService.Reserve",
		attribute.Int64("appointment_id", appointmentID),
		attribute.Int64("attendee_id", attendeeID))
	defer func() { endSpan(span, err) }()

	s.logger.Info("Reserve called",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("attendee_id", attendeeID))

	var appt *model.Appointment
	var denied *QuotaError
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		// Хост известен только из встречи: читаем без блокировки, блокируем хоста, потом саму встречу
		a, err := requireAppointment(ctx, tx, appointmentID, false)
		if err != nil {
			return err
		}
		if err := lockHost(ctx, tx, a.HostID); err != nil {
			return err
		}
		if a, err = requireAppointment(ctx, tx, appointmentID, true); err != nil {
			return err
		}
		if a.Status != model.AppointmentStatusPosted {
			return fmt.Errorf("%w: status %s", ErrSlotUnavailable, a.Status)
		}
		now := s.clock.Now()
		if !a.StartsAt(now.Location()).After(now) {
			return ErrInPast
		}

		attendee, err := requireUser(ctx, tx, attendeeID)
		if err != nil {
			return err
		}
		if !attendee.IsAttendee() {
			return ErrNotAttendee
		}

		program, err := tx.Programs().GetByID(ctx, a.ProgramID)
		if err != nil {
			return fmt.Errorf("get program: %w", err)
		}
		if program == nil {
			return fmt.Errorf("%w %d", ErrProgramNotFound, a.ProgramID)
		}

		limits := program.Limits()
		decision, counts, err := s.quota.CanAdmit(ctx, tx, a.HostID, a.Date, limits)
		if err != nil {
			return err
		}
		if !decision.Admit {
			// Лимит уже исчерпан: закрываем слоты, опубликованные после заполнения, и фиксируем это
			if err := s.quota.ApplyCascade(ctx, tx, a.HostID, a.Date, decision.Blocked); err != nil {
				return err
			}
			denied = &QuotaError{Scope: decision.Blocked}
			return nil
		}

		status := model.AppointmentStatusPending
		if program.AutoApprove {
			status = model.AppointmentStatusReserved
		}
		a.AttendeeID = &attendeeID
		a.Notes = strings.TrimSpace(notes)
		a.Status = status
		if err := tx.Appointments().Update(ctx, a); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		if err := s.quota.ApplyCascade(ctx, tx, a.HostID, a.Date, scheduling.FilledScope(counts, limits)); err != nil {
			return err
		}

		a.Program = program
		a.Attendee = attendee
		appt = a
		return nil
	})
	if err != nil {
		s.logger.Warn("Reservation failed",
			zap.Int64("appointment_id", appointmentID),
			zap.Int64("attendee_id", attendeeID),
			zap.Error(err))
		return nil, err
	}
	if denied != nil {
		s.logger.Info("Reservation denied by quota",
			zap.Int64("appointment_id", appointmentID),
			zap.Int64("attendee_id", attendeeID),
			zap.Stringer("scope", denied.Scope))
		return nil, denied
	}

	s.logger.Info("Appointment reserved",
		zap.Int64("appointment_id", appt.ID),
		zap.Int64("attendee_id", attendeeID),
		zap.String("status", string(appt.Status)))

	result := &ReservationResult{Appointment: appt}
	if appt.Status == model.AppointmentStatusReserved {
		result.Notified = s.confirm(ctx, appt)
	}
	return result, nil
}

// Decide одобряет или отклоняет pending-заявку
func (s *ReservationService) Decide(ctx context.Context, appointmentID, hostID int64, decision ApprovalDecision) (_ *model.Appointment, err error) {
	ctx, span := startSpan(ctx, "ReservationService.Decide",
		attribute.Int64("appointment_id", appointmentID))
	defer func() { endSpan(span, err) }()

	var appt *model.Appointment
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		a, err := requireAppointment(ctx, tx, appointmentID, true)
		if err != nil {
			return err
		}
		if a.HostID != hostID {
			return ErrNotOwner
		}

		var target model.AppointmentStatus
		switch decision {
		case Approve:
			target = model.AppointmentStatusReserved
		case Reject:
			target = model.AppointmentStatusRejected
		default:
			return validationf("unknown decision %d", decision)
		}
		if a.Status != model.AppointmentStatusPending || !a.Status.CanTransition(target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, target)
		}

		a.Status = target
		if err := tx.Appointments().Update(ctx, a); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		if a.Program, err = tx.Programs().GetByID(ctx, a.ProgramID); err != nil {
			return fmt.Errorf("get program: %w", err)
		}
		if a.AttendeeID != nil {
			if a.Attendee, err = tx.Users().GetByID(ctx, *a.AttendeeID); err != nil {
				return fmt.Errorf("get attendee: %w", err)
			}
		}
		appt = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Appointment decided",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("host_id", hostID),
		zap.String("status", string(appt.Status)))

	if appt.Status == model.AppointmentStatusReserved {
		s.confirm(ctx, appt)
	}
	return appt, nil
}

// Cancel отменяет бронь по инициативе хоста или записавшегося участника
func (s *ReservationService) Cancel(ctx context.Context, appointmentID, actorID int64) (_ *CancelResult, err error) {
	ctx, span := startSpan(ctx, "ReservationService.Cancel",
		attribute.Int64("appointment_id", appointmentID),
		attribute.Int64("actor_id", actorID))
	defer func() { endSpan(span, err) }()

	var result *CancelResult
	var eventID *string
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		a, err := requireAppointment(ctx, tx, appointmentID, true)
		if err != nil {
			return err
		}
		role := a.ParticipantOf(actorID)
		if role == model.ParticipantNone {
			return ErrNotParticipant
		}
		if a.Status != model.AppointmentStatusReserved && a.Status != model.AppointmentStatusPending {
			return fmt.Errorf("%w: cannot cancel %s appointment", ErrInvalidTransition, a.Status)
		}
		now := s.clock.Now()
		if !a.StartsAt(now.Location()).After(now) {
			return ErrInPast
		}

		result = &CancelResult{HostID: a.HostID, CanceledBy: role}
		if a.AttendeeID != nil {
			result.AttendeeID = *a.AttendeeID
		}
		eventID = a.EventID

		if s.policy.CancelPolicy == CancelDelete {
			if err := tx.Appointments().Delete(ctx, a.ID); err != nil {
				return fmt.Errorf("delete appointment: %w", err)
			}
			return nil
		}

		return s.revert(ctx, tx, a, result)
	})
	if err != nil {
		return nil, err
	}

	if eventID != nil && s.syncer != nil {
		if err := s.syncer.Remove(ctx, *eventID); err != nil {
			s.logger.Warn("Failed to remove calendar event",
				zap.Int64("appointment_id", appointmentID),
				zap.String("event_id", *eventID),
				zap.Error(err))
		}
	}

	s.logger.Info("Appointment canceled",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("actor_id", actorID),
		zap.String("policy", string(s.policy.CancelPolicy)))

	return result, nil
}

// revert возвращает слот в продажу; под выключенным окном слот остаётся inactive
func (s *ReservationService) revert(ctx context.Context, tx repository.Store, a *model.Appointment, result *CancelResult) error {
	target := model.AppointmentStatusPosted
	availability, err := tx.Availabilities().GetByID(ctx, a.AvailabilityID)
	if err != nil {
		return fmt.Errorf("get availability: %w", err)
	}
	if availability != nil && !availability.IsActive() {
		target = model.AppointmentStatusInactive
	}
	if !a.Status.CanTransition(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, target)
	}

	program, err := tx.Programs().GetByID(ctx, a.ProgramID)
	if err != nil {
		return fmt.Errorf("get program: %w", err)
	}

	a.AttendeeID = nil
	a.Notes = ""
	a.EventID = nil
	a.Status = target
	if program != nil {
		a.PhysicalLocation = program.PhysicalLocation
		a.MeetingURL = program.MeetingURL
	}
	if err := tx.Appointments().Update(ctx, a); err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}

	a.Program = program
	result.Appointment = a
	return nil
}

// ListAvailableSlots свободные будущие слоты программы за даты [from, to]
func (s *ReservationService) ListAvailableSlots(ctx context.Context, programID int64, from, to time.Time) ([]*model.Appointment, error) {
	list, err := s.store.Appointments().List(ctx, repository.AppointmentFilter{
		ProgramID: &programID,
		Statuses:  []model.AppointmentStatus{model.AppointmentStatusPosted},
		From:      &from,
		To:        &to,
	})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	now := s.clock.Now()
	out := list[:0]
	for _, a := range list {
		if a.StartsAt(now.Location()).After(now) {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListHostAppointments встречи хоста для выбранного списка
func (s *ReservationService) ListHostAppointments(ctx context.Context, hostID int64, view AppointmentView) ([]*model.Appointment, error) {
	return s.listView(ctx, repository.AppointmentFilter{HostID: &hostID}, view)
}

// ListAttendeeAppointments встречи участника для выбранного списка
func (s *ReservationService) ListAttendeeAppointments(ctx context.Context, attendeeID int64, view AppointmentView) ([]*model.Appointment, error) {
	return s.listView(ctx, repository.AppointmentFilter{AttendeeID: &attendeeID}, view)
}

// ListHostSchedule все встречи хоста за даты [from, to] в любом статусе, для сетки недели
func (s *ReservationService) ListHostSchedule(ctx context.Context, hostID int64, from, to time.Time) ([]*model.Appointment, error) {
	list, err := s.store.Appointments().List(ctx, repository.AppointmentFilter{
		HostID: &hostID,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if err := s.enrich(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

var pastStatuses = append(
	[]model.AppointmentStatus{model.AppointmentStatusReserved},
	model.AppointmentStatusesWhere(model.AppointmentStatus.IsTerminal)...,
)

func (s *ReservationService) listView(ctx context.Context, filter repository.AppointmentFilter, view AppointmentView) ([]*model.Appointment, error) {
	now := s.clock.Now()
	loc := now.Location()
	today := timewindow.Today(s.clock)

	var keep func(a *model.Appointment) bool
	switch view {
	case ViewUpcoming:
		filter.Statuses = []model.AppointmentStatus{model.AppointmentStatusReserved}
		filter.From = &today
		keep = func(a *model.Appointment) bool { return a.StartsAt(loc).After(now) }
	case ViewPending:
		filter.Statuses = []model.AppointmentStatus{model.AppointmentStatusPending}
		filter.From = &today
		keep = func(a *model.Appointment) bool { return a.StartsAt(loc).After(now) }
	case ViewPast:
		filter.Statuses = pastStatuses
		// Завершённые статусы показываются всегда, reserved только после начала
		keep = func(a *model.Appointment) bool {
			return a.Status.IsTerminal() || !a.StartsAt(loc).After(now)
		}
	default:
		return nil, validationf("unknown view %d", view)
	}

	list, err := s.store.Appointments().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	out := list[:0]
	for _, a := range list {
		if keep(a) {
			out = append(out, a)
		}
	}
	if err := s.enrich(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAppointment встреча с программой и участниками; видна участникам и администраторам
func (s *ReservationService) GetAppointment(ctx context.Context, appointmentID, viewerID int64) (*model.Appointment, error) {
	a, err := requireAppointment(ctx, s.store, appointmentID, false)
	if err != nil {
		return nil, err
	}
	if a.ParticipantOf(viewerID) == model.ParticipantNone {
		viewer, err := requireUser(ctx, s.store, viewerID)
		if err != nil {
			return nil, err
		}
		if !viewer.IsAdmin() && a.Status != model.AppointmentStatusPosted {
			return nil, ErrNotParticipant
		}
	}
	if err := s.enrich(ctx, []*model.Appointment{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// CompletePastAppointments закрывает прошедшие reserved-встречи статусом completed
func (s *ReservationService) CompletePastAppointments(ctx context.Context) (_ int, err error) {
	ctx, span := startSpan(ctx, "ReservationService.CompletePastAppointments")
	defer func() { endSpan(span, err) }()

	now := s.clock.Now()
	today := timewindow.Today(s.clock)

	completed := 0
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		list, err := tx.Appointments().List(ctx, repository.AppointmentFilter{
			Statuses: []model.AppointmentStatus{model.AppointmentStatusReserved},
			To:       &today,
		})
		if err != nil {
			return fmt.Errorf("list reserved appointments: %w", err)
		}

		for _, a := range list {
			if a.EndsAt(now.Location()).After(now) {
				continue
			}
			a.Status = model.AppointmentStatusCompleted
			if err := tx.Appointments().Update(ctx, a); err != nil {
				return fmt.Errorf("complete appointment %d: %w", a.ID, err)
			}
			completed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if completed > 0 {
		s.logger.Info("Past appointments completed", zap.Int("count", completed))
	}
	return completed, nil
}

// enrich заполняет программу, хоста и участника
func (s *ReservationService) enrich(ctx context.Context, list []*model.Appointment) error {
	if len(list) == 0 {
		return nil
	}

	programs := make(map[int64]*model.Program)
	userIDs := make([]int64, 0, len(list)*2)
	for _, a := range list {
		if _, ok := programs[a.ProgramID]; !ok {
			p, err := s.store.Programs().GetByID(ctx, a.ProgramID)
			if err != nil {
				return fmt.Errorf("get program: %w", err)
			}
			programs[a.ProgramID] = p
		}
		userIDs = append(userIDs, a.HostID)
		if a.AttendeeID != nil {
			userIDs = append(userIDs, *a.AttendeeID)
		}
	}

	users, err := s.store.Users().GetByIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("get users: %w", err)
	}
	byID := make(map[int64]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, a := range list {
		a.Program = programs[a.ProgramID]
		a.Host = byID[a.HostID]
		if a.AttendeeID != nil {
			a.Attendee = byID[*a.AttendeeID]
		}
	}
	return nil
}

// confirm синхронизирует календарь и рассылает подтверждение. Ошибки только логируются.
func (s *ReservationService) confirm(ctx context.Context, appt *model.Appointment) bool {
	if err := s.enrich(ctx, []*model.Appointment{appt}); err != nil {
		s.logger.Error("Failed to load appointment details for notification",
			zap.Int64("appointment_id", appt.ID),
			zap.Error(err))
		return false
	}

	loc := s.clock.Now().Location()
	event := calendarEvent(appt, loc)

	if s.syncer != nil {
		eventID, err := s.syncer.Upsert(ctx, event)
		if err != nil {
			s.logger.Warn("Failed to sync calendar event",
				zap.Int64("appointment_id", appt.ID),
				zap.Error(err))
		} else if err := s.store.Appointments().SetEventID(ctx, appt.ID, &eventID); err != nil {
			s.logger.Warn("Failed to store calendar event id",
				zap.Int64("appointment_id", appt.ID),
				zap.Error(err))
		} else {
			appt.EventID = &eventID
		}
	}

	msg := confirmationMessage(appt, loc)
	if ics, err := calendar.BuildICS(event); err != nil {
		s.logger.Warn("Failed to build ics attachment",
			zap.Int64("appointment_id", appt.ID),
			zap.Error(err))
	} else {
		msg.Attachment = &notify.Attachment{
			Filename:    fmt.Sprintf("appointment-%d.ics", appt.ID),
			ContentType: "text/calendar; charset=utf-8; method=PUBLISH",
			Data:        ics,
		}
	}

	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.logger.Warn("Failed to send confirmation",
			zap.Int64("appointment_id", appt.ID),
			zap.Error(err))
		return false
	}

	s.logger.Info("Confirmation sent",
		zap.Int64("appointment_id", appt.ID),
		zap.Int("recipients", len(msg.To)))
	return true
}

func calendarEvent(appt *model.Appointment, loc *time.Location) calendar.Event {
	e := calendar.Event{
		UID:         uuid.NewString(),
		Summary:     "Консультация",
		Description: appt.Notes,
		Location:    appt.PhysicalLocation,
		Start:       appt.StartsAt(loc),
		End:         appt.EndsAt(loc),
	}
	if appt.Program != nil {
		e.Summary = appt.Program.Name
	}
	if e.Location == "" {
		e.Location = appt.MeetingURL
	}
	if appt.Host != nil {
		e.Organizer = appt.Host.Email
	}
	if appt.Attendee != nil && appt.Attendee.Email != "" {
		e.Attendees = []string{appt.Attendee.Email}
	}
	return e
}

func confirmationMessage(appt *model.Appointment, loc *time.Location) notify.Message {
	name := "Консультация"
	if appt.Program != nil {
		name = appt.Program.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", name)
	fmt.Fprintf(&b, "Дата: %s\n", appt.StartsAt(loc).Format("02.01.2006"))
	fmt.Fprintf(&b, "Время: %s - %s\n", appt.StartTime, appt.EndTime)
	if appt.PhysicalLocation != "" {
		fmt.Fprintf(&b, "Место: %s\n", appt.PhysicalLocation)
	}
	if appt.MeetingURL != "" {
		fmt.Fprintf(&b, "Ссылка: %s\n", appt.MeetingURL)
	}
	if appt.Host != nil {
		fmt.Fprintf(&b, "Ведущий: %s\n", appt.Host.DisplayName())
	}
	if appt.Attendee != nil {
		fmt.Fprintf(&b, "Участник: %s\n", appt.Attendee.DisplayName())
	}
	if appt.Notes != "" {
		fmt.Fprintf(&b, "Комментарий: %s\n", appt.Notes)
	}

	var to []notify.Recipient
	for _, u := range []*model.User{appt.Attendee, appt.Host} {
		if u == nil {
			continue
		}
		to = append(to, notify.Recipient{
			Name:           u.DisplayName(),
			Email:          u.Email,
			TelegramChatID: u.TelegramID,
		})
	}

	return notify.Message{
		To:      to,
		Subject: "Встреча подтверждена: " + name,
		Body:    b.String(),
	}
}
