package service

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/officehours_bot/internal/scheduling"
)

// Классы ошибок сервисного слоя. Конкретные ошибки оборачивают один из них,
// контроллер различает их через errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

var (
	ErrInPast = fmt.Errorf("%w: date or time is not in the future", ErrValidation)

	ErrAvailabilityOverlap = fmt.Errorf("%w: availability overlaps an existing window", ErrConflict)
	ErrSlotUnavailable     = fmt.Errorf("%w: slot is not available", ErrConflict)
	ErrInvalidTransition   = fmt.Errorf("%w: status transition not allowed", ErrConflict)
	ErrDuplicateProgram    = fmt.Errorf("%w: program with this name already exists", ErrConflict)

	ErrNotHost        = fmt.Errorf("%w: user is not a host", ErrForbidden)
	ErrNotAttendee    = fmt.Errorf("%w: user is not an attendee", ErrForbidden)
	ErrNotParticipant = fmt.Errorf("%w: user does not participate in the appointment", ErrForbidden)
	ErrNotOwner       = fmt.Errorf("%w: resource belongs to another user", ErrForbidden)

	ErrUserNotFound         = fmt.Errorf("%w: user", ErrNotFound)
	ErrProgramNotFound      = fmt.Errorf("%w: program", ErrNotFound)
	ErrAvailabilityNotFound = fmt.Errorf("%w: availability", ErrNotFound)
	ErrAppointmentNotFound  = fmt.Errorf("%w: appointment", ErrNotFound)
	ErrCommentNotFound      = fmt.Errorf("%w: comment", ErrNotFound)
)

// QuotaError отказ по лимиту встреч; Scope: сработавшее окно
type QuotaError struct {
	Scope scheduling.Scope
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s meeting limit reached", e.Scope)
}

func (e *QuotaError) Unwrap() error {
	return ErrConflict
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
