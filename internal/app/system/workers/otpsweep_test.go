package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Sweep(context.Context, time.Time) (int, error) {
	s.calls.Add(1)
	return 2, s.err
}

func TestOTPSweep_RunsOnInterval(t *testing.T) {
	s := &countingSweeper{}
	w := NewOTPSweep(s, zap.NewNop(), 10*time.Millisecond)
	w.Start()

	deadline := time.Now().Add(2 * time.Second)
	for s.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()

	if got := s.calls.Load(); got < 2 {
		t.Errorf("expected at least 2 sweeps, got %d", got)
	}
}

func TestOTPSweep_StopIsIdempotent(t *testing.T) {
	w := NewOTPSweep(&countingSweeper{}, zap.NewNop(), time.Hour)
	w.Start()
	w.Stop()
	w.Stop()
}

func TestOTPSweep_ErrorDoesNotStopLoop(t *testing.T) {
	s := &countingSweeper{err: errors.New("boom")}
	w := NewOTPSweep(s, zap.NewNop(), time.Hour)

	w.sweep()
	w.sweep()

	if got := s.calls.Load(); got != 2 {
		t.Errorf("expected 2 sweeps, got %d", got)
	}
}

func TestNewOTPSweep_DefaultInterval(t *testing.T) {
	w := NewOTPSweep(&countingSweeper{}, zap.NewNop(), 0)
	if w.interval != time.Minute {
		t.Errorf("expected default interval 1m, got %v", w.interval)
	}
}
