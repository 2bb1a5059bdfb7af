package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/officehours_bot/internal/model"
	"github.com/Freeeeeet/officehours_bot/internal/repository"
	"github.com/Freeeeeet/officehours_bot/internal/scheduling"
	"go.uber.org/zap"
)

var quotaStatuses = model.AppointmentStatusesWhere(model.AppointmentStatus.CountsTowardQuota)

// QuotaEngine считает занятость хоста и выключает оставшиеся слоты при исчерпании лимита.
// Методы работают внутри транзакции вызывающего.
type QuotaEngine struct {
	logger *zap.Logger
}

func NewQuotaEngine(logger *zap.Logger) *QuotaEngine {
	return &QuotaEngine{logger: logger}
}

// CanAdmit решает, можно ли принять ещё одну встречу хоста на дату date.
// Вызывающий уже держит блокировку строки хоста (lockHost), поэтому подсчёт не гоняется с параллельными бронями.
func (q *QuotaEngine) CanAdmit(ctx context.Context, tx repository.Store, hostID int64, date time.Time, limits scheduling.Limits) (scheduling.Decision, scheduling.Counts, error) {
	if limits.IsZero() {
		return scheduling.Decision{Admit: true}, scheduling.Counts{}, nil
	}

	count := func(scope scheduling.Scope, limit *int) (int, error) {
		if limit == nil {
			return 0, nil
		}
		from, to := scheduling.ScopeRange(scope, date)
		n, err := tx.Appointments().CountByHost(ctx, hostID, quotaStatuses, from, to)
		if err != nil {
			return 0, fmt.Errorf("count %s appointments: %w", scope, err)
		}
		return n, nil
	}

	var counts scheduling.Counts
	var err error
	if counts.Daily, err = count(scheduling.ScopeDay, limits.Daily); err != nil {
		return scheduling.Decision{}, counts, err
	}
	if counts.Weekly, err = count(scheduling.ScopeWeek, limits.Weekly); err != nil {
		return scheduling.Decision{}, counts, err
	}
	if counts.Monthly, err = count(scheduling.ScopeMonth, limits.Monthly); err != nil {
		return scheduling.Decision{}, counts, err
	}

	decision := scheduling.Evaluate(counts, limits)

	q.logger.Debug("Quota evaluated",
		zap.Int64("host_id", hostID),
		zap.Time("date", date),
		zap.Int("daily", counts.Daily),
		zap.Int("weekly", counts.Weekly),
		zap.Int("monthly", counts.Monthly),
		zap.Bool("admit", decision.Admit),
		zap.Stringer("blocked", decision.Blocked),
	)

	return decision, counts, nil
}

// ApplyCascade выключает свободные слоты и окна хоста в границах scope вокруг date
func (q *QuotaEngine) ApplyCascade(ctx context.Context, tx repository.Store, hostID int64, date time.Time, scope scheduling.Scope) error {
	if scope == scheduling.ScopeNone {
		return nil
	}

	from, to := scheduling.ScopeRange(scope, date)

	slots, err := tx.Appointments().DeactivatePostedInRange(ctx, hostID, from, to)
	if err != nil {
		return fmt.Errorf("deactivate posted appointments: %w", err)
	}
	windows, err := tx.Availabilities().DeactivateInRange(ctx, hostID, from, to)
	if err != nil {
		return fmt.Errorf("deactivate availabilities: %w", err)
	}

	q.logger.Info("Quota cascade applied",
		zap.Int64("host_id", hostID),
		zap.Stringer("scope", scope),
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int64("appointments", slots),
		zap.Int64("availabilities", windows),
	)

	return nil
}
