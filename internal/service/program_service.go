package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
	"go.uber.org/zap"
)

type ProgramService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewProgramService(store repository.Store, logger *zap.Logger) *ProgramService {
	return &ProgramService{
		store:  store,
		logger: logger,
	}
}

// CreateProgram создаёт новую программу хоста
func (s *ProgramService) CreateProgram(ctx context.Context, hostID int64, in ProgramInput) (*model.Program, error) {
	in.Name = strings.TrimSpace(in.Name)

	s.logger.Info("CreateProgram called",
		zap.Int64("host_id", hostID),
		zap.String("name", in.Name),
		zap.Int("duration", in.Duration),
		zap.Bool("auto_approve", in.AutoApprove),
		zap.Bool("drop_in", in.IsDropIn))

	if err := validateStruct(in); err != nil {
		return nil, err
	}

	host, err := requireHost(ctx, s.store, hostID)
	if err != nil {
		s.logger.Warn("Program creation rejected",
			zap.Int64("host_id", hostID),
			zap.Error(err))
		return nil, err
	}

	program := &model.Program{
		HostID:           hostID,
		GroupID:          in.GroupID,
		Name:             in.Name,
		Description:      strings.TrimSpace(in.Description),
		PhysicalLocation: strings.TrimSpace(in.PhysicalLocation),
		MeetingURL:       strings.TrimSpace(in.MeetingURL),
		Duration:         in.Duration,
		AutoApprove:      in.AutoApprove,
		MaxDaily:         in.Limits.Daily,
		MaxWeekly:        in.Limits.Weekly,
		MaxMonthly:       in.Limits.Monthly,
		IsDropIn:         in.IsDropIn,
		IsRangeBased:     in.IsRangeBased,
	}
	normalizeDropIn(program)

	if err := s.store.Programs().Create(ctx, program); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProgram, program.Name)
		}
		s.logger.Error("Failed to create program in DB",
			zap.Int64("host_id", hostID),
			zap.String("name", program.Name),
			zap.Error(err))
		return nil, fmt.Errorf("create program: %w", err)
	}

	s.logger.Info("Program created successfully",
		zap.Int64("program_id", program.ID),
		zap.Int64("host_id", hostID),
		zap.String("host_name", host.FirstName),
		zap.String("name", program.Name))

	return program, nil
}

// UpdateSettings заменяет длительность, политику одобрения, место и лимиты
func (s *ProgramService) UpdateSettings(ctx context.Context, hostID, programID int64, in ProgramSettings) (*model.Program, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	program, err := requireOwnedProgram(ctx, s.store, hostID, programID)
	if err != nil {
		return nil, err
	}

	program.Duration = in.Duration
	program.AutoApprove = in.AutoApprove
	program.PhysicalLocation = strings.TrimSpace(in.PhysicalLocation)
	program.MeetingURL = strings.TrimSpace(in.MeetingURL)
	program.MaxDaily = in.Limits.Daily
	program.MaxWeekly = in.Limits.Weekly
	program.MaxMonthly = in.Limits.Monthly
	normalizeDropIn(program)

	if err := s.update(ctx, program); err != nil {
		return nil, err
	}

	s.logger.Info("Program settings updated",
		zap.Int64("program_id", programID),
		zap.Int("duration", program.Duration),
		zap.Bool("auto_approve", program.AutoApprove))

	return program, nil
}

// SetLimits меняет только лимиты встреч
func (s *ProgramService) SetLimits(ctx context.Context, hostID, programID int64, limits LimitsInput) (*model.Program, error) {
	if err := validateStruct(limits); err != nil {
		return nil, err
	}

	program, err := requireOwnedProgram(ctx, s.store, hostID, programID)
	if err != nil {
		return nil, err
	}
	if program.IsDropIn {
		return nil, validationf("drop-in program has no meeting limits")
	}

	program.MaxDaily = limits.Daily
	program.MaxWeekly = limits.Weekly
	program.MaxMonthly = limits.Monthly

	if err := s.update(ctx, program); err != nil {
		return nil, err
	}

	s.logger.Info("Program limits updated",
		zap.Int64("program_id", programID),
		zap.Any("daily", program.MaxDaily),
		zap.Any("weekly", program.MaxWeekly),
		zap.Any("monthly", program.MaxMonthly))

	return program, nil
}

// GetProgram получает программу по ID
func (s *ProgramService) GetProgram(ctx context.Context, programID int64) (*model.Program, error) {
	program, err := s.store.Programs().GetByID(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("get program: %w", err)
	}
	if program == nil {
		return nil, fmt.Errorf("%w %d", ErrProgramNotFound, programID)
	}
	return program, nil
}

// ListHostPrograms получает все программы хоста
func (s *ProgramService) ListHostPrograms(ctx context.Context, hostID int64) ([]*model.Program, error) {
	return s.store.Programs().ListByHost(ctx, hostID)
}

// DeleteProgram удаляет программу со всеми окнами и встречами
func (s *ProgramService) DeleteProgram(ctx context.Context, hostID, programID int64) error {
	if _, err := requireOwnedProgram(ctx, s.store, hostID, programID); err != nil {
		return err
	}
	if err := s.store.Programs().Delete(ctx, programID); err != nil {
		return fmt.Errorf("delete program: %w", err)
	}

	s.logger.Info("Program deleted",
		zap.Int64("program_id", programID),
		zap.Int64("host_id", hostID))
	return nil
}

func (s *ProgramService) update(ctx context.Context, program *model.Program) error {
	if err := s.store.Programs().Update(ctx, program); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("%w: %q", ErrDuplicateProgram, program.Name)
		}
		return fmt.Errorf("update program: %w", err)
	}
	return nil
}

// normalizeDropIn у drop-in программ нет одобрения и лимитов
func normalizeDropIn(p *model.Program) {
	if !p.IsDropIn {
		return
	}
	p.AutoApprove = false
	p.MaxDaily, p.MaxWeekly, p.MaxMonthly = nil, nil, nil
}
