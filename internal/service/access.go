package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
)

func requireUser(ctx context.Context, store repository.Store, userID int64) (*model.User, error) {
	user, err := store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w %d", ErrUserNotFound, userID)
	}
	return user, nil
}

func requireHost(ctx context.Context, store repository.Store, hostID int64) (*model.User, error) {
	host, err := requireUser(ctx, store, hostID)
	if err != nil {
		return nil, err
	}
	if !host.IsHost() {
		return nil, ErrNotHost
	}
	return host, nil
}

// requireOwnedProgram программа должна существовать и принадлежать хосту
func requireOwnedProgram(ctx context.Context, store repository.Store, hostID, programID int64) (*model.Program, error) {
	program, err := store.Programs().GetByID(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("get program: %w", err)
	}
	if program == nil {
		return nil, fmt.Errorf("%w %d", ErrProgramNotFound, programID)
	}
	if program.HostID != hostID {
		return nil, ErrNotOwner
	}
	return program, nil
}

func requireOwnedAvailability(ctx context.Context, store repository.Store, hostID, availabilityID int64) (*model.Availability, error) {
	a, err := store.Availabilities().GetByID(ctx, availabilityID)
	if err != nil {
		return nil, fmt.Errorf("get availability: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w %d", ErrAvailabilityNotFound, availabilityID)
	}
	if a.HostID != hostID {
		return nil, ErrNotOwner
	}
	return a, nil
}

// lockHost блокирует строку хоста до конца транзакции.
// Порядок блокировок во всех транзакциях: хост, затем строки его встреч.
func lockHost(ctx context.Context, tx repository.Store, hostID int64) error {
	if err := tx.Users().LockByID(ctx, hostID); err != nil {
		return fmt.Errorf("lock host: %w", err)
	}
	return nil
}

func requireAppointment(ctx context.Context, store repository.Store, appointmentID int64, forUpdate bool) (*model.Appointment, error) {
	get := store.Appointments().GetByID
	if forUpdate {
		get = store.Appointments().GetForUpdate
	}
	a, err := get(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w %d", ErrAppointmentNotFound, appointmentID)
	}
	return a, nil
}
