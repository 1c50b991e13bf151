// Package timeouts holds the deadlines applied to database and collaborator
// calls made while serving a request.
//
// Tiers:
//   - Ping: health checks
//   - Short: single-document reads and writes (user lookup, OTP lookup)
//   - Medium: scans and multi-step work (ride search, history, booking)
//   - Upstream: calls to outside services (SMTP, maps API, broker)
//   - Startup: index builds and seeding at boot
//
// Values can be overridden once at startup with Configure or
// ConfigureFromEnv.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults used until Configure is called.
const (
	DefaultPing     = 2 * time.Second
	DefaultShort    = 5 * time.Second
	DefaultMedium   = 10 * time.Second
	DefaultUpstream = 8 * time.Second
	DefaultStartup  = 60 * time.Second
)

// Config holds timeout values. Zero fields are ignored by Configure.
type Config struct {
	Ping     time.Duration
	Short    time.Duration
	Medium   time.Duration
	Upstream time.Duration
	Startup  time.Duration
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func defaults() Config {
	return Config{
		Ping:     DefaultPing,
		Short:    DefaultShort,
		Medium:   DefaultMedium,
		Upstream: DefaultUpstream,
		Startup:  DefaultStartup,
	}
}

// Ping is the deadline for health checks.
func Ping() time.Duration { return get(func(c Config) time.Duration { return c.Ping }) }

// Short is the deadline for single-document operations.
func Short() time.Duration { return get(func(c Config) time.Duration { return c.Short }) }

// Medium is the deadline for scans and multi-step operations.
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }

// Upstream is the deadline for calls to mail, maps and the message broker.
func Upstream() time.Duration { return get(func(c Config) time.Duration { return c.Upstream }) }

// Startup is the deadline for schema setup and seeding.
func Startup() time.Duration { return get(func(c Config) time.Duration { return c.Startup }) }

func get(f func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return f(cur)
}

// Configure overrides the non-zero values in cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	merge(&cur.Ping, cfg.Ping)
	merge(&cur.Short, cfg.Short)
	merge(&cur.Medium, cfg.Medium)
	merge(&cur.Upstream, cfg.Upstream)
	merge(&cur.Startup, cfg.Startup)
}

func merge(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// Current returns the values in effect.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// ConfigureFromEnv reads TIMEOUT_PING, TIMEOUT_SHORT, TIMEOUT_MEDIUM,
// TIMEOUT_UPSTREAM and TIMEOUT_STARTUP (Go duration strings). Unset or
// invalid values are skipped. It returns how many values were applied.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for name, dst := range map[string]*time.Duration{
		"TIMEOUT_PING":     &cfg.Ping,
		"TIMEOUT_SHORT":    &cfg.Short,
		"TIMEOUT_MEDIUM":   &cfg.Medium,
		"TIMEOUT_UPSTREAM": &cfg.Upstream,
		"TIMEOUT_STARTUP":  &cfg.Startup,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "send otp email")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
