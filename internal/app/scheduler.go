package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper переводит прошедшие встречи в завершённые
type Sweeper interface {
	CompletePastAppointments(ctx context.Context) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sweeper Sweeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.runSweepTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) runSweepTask(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Sweep task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	n, err := s.sweeper.CompletePastAppointments(ctx)
	if err != nil {
		s.logger.Error("Failed to complete past appointments", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Past appointments completed", zap.Int("count", n))
	}
}
