// internal/app/system/workers/otpsweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper removes expired entries and reports how many it removed.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// OTPSweep is a background worker that periodically purges expired OTP codes
// from a store that has no native expiry.
type OTPSweep struct {
	store    Sweeper
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// NewOTPSweep creates a new sweep worker.
func NewOTPSweep(store Sweeper, logger *zap.Logger, interval time.Duration) *OTPSweep {
	if interval <= 0 {
		interval = time.Minute
	}
	return &OTPSweep{
		store:    store,
		log:      logger,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *OTPSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("otp sweep worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *OTPSweep) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("otp sweep worker stopped")
	})
}

func (w *OTPSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *OTPSweep) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.store.Sweep(ctx, w.now())
	if err != nil {
		w.log.Error("failed to sweep expired otp codes", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("swept expired otp codes", zap.Int("count", count))
	}
}
