package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) CompletePastAppointments(context.Context) (int, error) {
	s.calls.Add(1)
	return 1, s.err
}

func TestSchedulerRunsImmediatelyAndOnTick(t *testing.T) {
	sw := &countingSweeper{}
	s := NewScheduler(sw, 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return sw.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	s.Stop()
	after := sw.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, sw.calls.Load())

	// повторная остановка безопасна
	s.Stop()
}

func TestSchedulerSurvivesErrorsAndContextCancel(t *testing.T) {
	sw := &countingSweeper{err: errors.New("db down")}
	s := NewScheduler(sw, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return sw.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	s.Stop()
}

func TestSetupTelemetryDisabled(t *testing.T) {
	shutdown, err := SetupTelemetry(context.Background(), TelemetryConfig{Enabled: false})
	assert.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
