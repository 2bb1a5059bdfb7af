package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
	"github.com/Freeeeeet/officehours_bot/internal/scheduling"
	"github.com/Freeeeeet/officehours_bot/internal/timewindow"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type AvailabilityService struct {
	store  repository.Store
	quota  *QuotaEngine
	clock  timewindow.Clock
	policy Policy
	logger *zap.Logger
}

func NewAvailabilityService(
	store repository.Store,
	quota *QuotaEngine,
	clock timewindow.Clock,
	policy Policy,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		store:  store,
		quota:  quota,
		clock:  clock,
		policy: policy,
		logger: logger,
	}
}

// CreateAvailability публикует окно доступности и нарезает его на posted-слоты
func (s *AvailabilityService) CreateAvailability(ctx context.Context, hostID int64, in AvailabilityInput) (_ *model.Availability, _ []*model.Appointment, err error) {
	ctx, span := startSpan(ctx, "AvailabilityService.CreateAvailability",
		attribute.Int64("host_id", hostID),
		attribute.Int64("program_id", in.ProgramID))
	defer func() { endSpan(span, err) }()

	s.logger.Info("CreateAvailability called",
		zap.Int64("host_id", hostID),
		zap.Int64("program_id", in.ProgramID),
		zap.String("date", in.Date),
		zap.String("start", in.Start),
		zap.String("end", in.End))

	var availability *model.Availability
	var slots []*model.Appointment
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		availability, slots, err = s.create(ctx, tx, hostID, in)
		return err
	})
	if err != nil {
		s.logger.Warn("Failed to create availability",
			zap.Int64("host_id", hostID),
			zap.Int64("program_id", in.ProgramID),
			zap.Error(err))
		return nil, nil, err
	}

	s.logger.Info("Availability created",
		zap.Int64("availability_id", availability.ID),
		zap.Int64("host_id", hostID),
		zap.Int("slots", len(slots)))

	return availability, slots, nil
}

func (s *AvailabilityService) create(ctx context.Context, tx repository.Store, hostID int64, in AvailabilityInput) (*model.Availability, []*model.Appointment, error) {
	if err := validateStruct(in); err != nil {
		return nil, nil, err
	}

	date, err := timewindow.ParseDate(in.Date)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	start, err := timewindow.ParseTime(in.Start)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	end, err := timewindow.ParseTime(in.End)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := requireHost(ctx, tx, hostID); err != nil {
		return nil, nil, err
	}
	program, err := requireOwnedProgram(ctx, tx, hostID, in.ProgramID)
	if err != nil {
		return nil, nil, err
	}

	if !timewindow.IsFutureOrToday(s.clock, date) {
		return nil, nil, fmt.Errorf("%w: %s", ErrInPast, in.Date)
	}
	if !timewindow.IsAtLeast(s.policy.MinWindow, start, end) {
		return nil, nil, validationf("window %s-%s must end after start and last at least %d minutes",
			start, end, int(s.policy.MinWindow/time.Minute))
	}
	now := s.clock.Now()
	if !timewindow.Combine(date, start, now.Location()).After(now) {
		return nil, nil, fmt.Errorf("%w: %s %s", ErrInPast, in.Date, start)
	}

	if err := s.checkOverlap(ctx, tx, hostID, program.ID, date, scheduling.Window{Start: start, End: end}); err != nil {
		return nil, nil, err
	}

	availability := &model.Availability{
		HostID:    hostID,
		ProgramID: program.ID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    model.AvailabilityStatusActive,
	}
	if err := tx.Availabilities().Create(ctx, availability); err != nil {
		return nil, nil, fmt.Errorf("create availability: %w", err)
	}

	// Drop-in окна не нарезаются: посещение без записи
	if program.IsDropIn {
		return availability, nil, nil
	}

	windows := scheduling.GenerateSlots(availability.Window(), program.Duration)
	slots := make([]*model.Appointment, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, &model.Appointment{
			HostID:           hostID,
			AvailabilityID:   availability.ID,
			ProgramID:        program.ID,
			Date:             date,
			StartTime:        w.Start,
			EndTime:          w.End,
			Status:           model.AppointmentStatusPosted,
			PhysicalLocation: program.PhysicalLocation,
			MeetingURL:       program.MeetingURL,
		})
	}
	if err := tx.Appointments().CreateBatch(ctx, slots); err != nil {
		return nil, nil, fmt.Errorf("create appointments: %w", err)
	}

	return availability, slots, nil
}

// checkOverlap сравнивает окно с активными окнами хоста за дату
func (s *AvailabilityService) checkOverlap(ctx context.Context, tx repository.Store, hostID, programID int64, date time.Time, candidate scheduling.Window) error {
	active := model.AvailabilityStatusActive
	filter := repository.AvailabilityFilter{HostID: hostID, Date: &date, Status: &active}
	if s.policy.OverlapScope != OverlapByHost {
		filter.ProgramID = &programID
	}

	existing, err := tx.Availabilities().List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list availabilities: %w", err)
	}

	windows := make([]scheduling.Window, 0, len(existing))
	for _, a := range existing {
		windows = append(windows, a.Window())
	}
	if scheduling.HasConflict(candidate, windows) {
		return fmt.Errorf("%w: %s %s-%s", ErrAvailabilityOverlap,
			timewindow.FormatDate(date), candidate.Start, candidate.End)
	}
	return nil
}

// DeactivateAvailability выключает окно и его свободные слоты. Повторный вызов ничего не меняет.
func (s *AvailabilityService) DeactivateAvailability(ctx context.Context, hostID, availabilityID int64) (_ *model.Availability, err error) {
	ctx, span := startSpan(ctx, "AvailabilityService.DeactivateAvailability",
		attribute.Int64("availability_id", availabilityID))
	defer func() { endSpan(span, err) }()

	var availability *model.Availability
	var slots int64
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		a, err := requireOwnedAvailability(ctx, tx, hostID, availabilityID)
		if err != nil {
			return err
		}
		availability = a
		if !a.IsActive() {
			return nil
		}
		if err := lockHost(ctx, tx, hostID); err != nil {
			return err
		}

		if err := tx.Availabilities().UpdateStatus(ctx, a.ID, model.AvailabilityStatusInactive); err != nil {
			return fmt.Errorf("update availability status: %w", err)
		}
		slots, err = tx.Appointments().SetStatusByAvailability(ctx, a.ID,
			model.AppointmentStatusPosted, model.AppointmentStatusInactive)
		if err != nil {
			return fmt.Errorf("deactivate appointments: %w", err)
		}
		a.Status = model.AvailabilityStatusInactive
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Availability deactivated",
		zap.Int64("availability_id", availabilityID),
		zap.Int64("host_id", hostID),
		zap.Int64("appointments", slots))

	return availability, nil
}

// ReactivateAvailability включает окно обратно, если лимиты программы на его дату не исчерпаны
func (s *AvailabilityService) ReactivateAvailability(ctx context.Context, hostID, availabilityID int64) (_ *model.Availability, err error) {
	ctx, span := startSpan(ctx, "AvailabilityService.ReactivateAvailability",
		attribute.Int64("availability_id", availabilityID))
	defer func() { endSpan(span, err) }()

	var availability *model.Availability
	var slots int64
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		a, err := requireOwnedAvailability(ctx, tx, hostID, availabilityID)
		if err != nil {
			return err
		}
		availability = a
		if a.IsActive() {
			return nil
		}
		if !timewindow.IsFutureOrToday(s.clock, a.Date) {
			return fmt.Errorf("%w: %s", ErrInPast, timewindow.FormatDate(a.Date))
		}
		if err := lockHost(ctx, tx, hostID); err != nil {
			return err
		}

		program, err := requireOwnedProgram(ctx, tx, hostID, a.ProgramID)
		if err != nil {
			return err
		}
		// Пока окно было выключено, его время могли занять
		if err := s.checkOverlap(ctx, tx, hostID, program.ID, a.Date, a.Window()); err != nil {
			return err
		}
		decision, _, err := s.quota.CanAdmit(ctx, tx, hostID, a.Date, program.Limits())
		if err != nil {
			return err
		}
		if !decision.Admit {
			return &QuotaError{Scope: decision.Blocked}
		}

		if err := tx.Availabilities().UpdateStatus(ctx, a.ID, model.AvailabilityStatusActive); err != nil {
			return fmt.Errorf("update availability status: %w", err)
		}
		slots, err = tx.Appointments().SetStatusByAvailability(ctx, a.ID,
			model.AppointmentStatusInactive, model.AppointmentStatusPosted)
		if err != nil {
			return fmt.Errorf("reactivate appointments: %w", err)
		}
		a.Status = model.AvailabilityStatusActive
		return nil
	})
	if err != nil {
		s.logger.Warn("Failed to reactivate availability",
			zap.Int64("availability_id", availabilityID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Availability reactivated",
		zap.Int64("availability_id", availabilityID),
		zap.Int64("host_id", hostID),
		zap.Int64("appointments", slots))

	return availability, nil
}

// ReplaceProgramAvailability заменяет все окна программы новым набором: либо все, либо ничего
func (s *AvailabilityService) ReplaceProgramAvailability(ctx context.Context, hostID, programID int64, inputs []AvailabilityInput) (_ []*model.Availability, err error) {
	ctx, span := startSpan(ctx, "AvailabilityService.ReplaceProgramAvailability",
		attribute.Int64("program_id", programID),
		attribute.Int("count", len(inputs)))
	defer func() { endSpan(span, err) }()

	var created []*model.Availability
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := requireHost(ctx, tx, hostID); err != nil {
			return err
		}
		if _, err := requireOwnedProgram(ctx, tx, hostID, programID); err != nil {
			return err
		}
		if err := lockHost(ctx, tx, hostID); err != nil {
			return err
		}

		removed, err := tx.Availabilities().DeleteByProgram(ctx, programID)
		if err != nil {
			return fmt.Errorf("delete program availabilities: %w", err)
		}
		s.logger.Debug("Program availabilities removed",
			zap.Int64("program_id", programID),
			zap.Int64("count", removed))

		created = make([]*model.Availability, 0, len(inputs))
		for i, in := range inputs {
			in.ProgramID = programID
			a, _, err := s.create(ctx, tx, hostID, in)
			if err != nil {
				return fmt.Errorf("availability #%d: %w", i+1, err)
			}
			created = append(created, a)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Failed to replace program availability",
			zap.Int64("program_id", programID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Program availability replaced",
		zap.Int64("program_id", programID),
		zap.Int("count", len(created)))

	return created, nil
}

// DeleteAvailability удаляет окно вместе со слотами, комментариями и отзывами
func (s *AvailabilityService) DeleteAvailability(ctx context.Context, hostID, availabilityID int64) error {
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := requireOwnedAvailability(ctx, tx, hostID, availabilityID); err != nil {
			return err
		}
		if err := lockHost(ctx, tx, hostID); err != nil {
			return err
		}
		if err := tx.Availabilities().Delete(ctx, availabilityID); err != nil {
			return fmt.Errorf("delete availability: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Availability deleted",
		zap.Int64("availability_id", availabilityID),
		zap.Int64("host_id", hostID))
	return nil
}

// ListProgramAvailability все окна программы
func (s *AvailabilityService) ListProgramAvailability(ctx context.Context, programID int64) ([]*model.Availability, error) {
	return s.store.Availabilities().ListByProgram(ctx, programID)
}

// ListHostAvailability окна хоста за даты [from, to]
func (s *AvailabilityService) ListHostAvailability(ctx context.Context, hostID int64, from, to time.Time) ([]*model.Availability, error) {
	return s.store.Availabilities().List(ctx, repository.AvailabilityFilter{HostID: hostID, From: &from, To: &to})
}

// ListDropIns активные окна drop-in программ хоста начиная с сегодняшнего дня
func (s *AvailabilityService) ListDropIns(ctx context.Context, hostID int64) ([]*model.Availability, error) {
	programs, err := s.store.Programs().ListByHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}

	today := timewindow.Today(s.clock)
	active := model.AvailabilityStatusActive

	var out []*model.Availability
	for _, p := range programs {
		if !p.IsDropIn {
			continue
		}
		programID := p.ID
		list, err := s.store.Availabilities().List(ctx, repository.AvailabilityFilter{
			HostID:    hostID,
			ProgramID: &programID,
			From:      &today,
			Status:    &active,
		})
		if err != nil {
			return nil, fmt.Errorf("list drop-in availabilities: %w", err)
		}
		out = append(out, list...)
	}
	return out, nil
}
