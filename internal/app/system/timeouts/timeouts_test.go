package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDefaults(t *testing.T) {
	Reset()
	defer Reset()

	if Short() != DefaultShort {
		t.Errorf("expected Short %v, got %v", DefaultShort, Short())
	}
	if Upstream() != DefaultUpstream {
		t.Errorf("expected Upstream %v, got %v", DefaultUpstream, Upstream())
	}
}

func TestConfigure_IgnoresZero(t *testing.T) {
	Reset()
	defer Reset()

	Configure(Config{Short: 7 * time.Second})

	if Short() != 7*time.Second {
		t.Errorf("expected Short 7s, got %v", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("expected Medium to keep default, got %v", Medium())
	}
}

func TestConfigureFromEnv(t *testing.T) {
	Reset()
	defer Reset()

	t.Setenv("TIMEOUT_UPSTREAM", "3s")
	t.Setenv("TIMEOUT_PING", "not-a-duration")

	n := ConfigureFromEnv()
	if n != 1 {
		t.Errorf("expected 1 value applied, got %d", n)
	}
	if Upstream() != 3*time.Second {
		t.Errorf("expected Upstream 3s, got %v", Upstream())
	}
	if Ping() != DefaultPing {
		t.Errorf("expected Ping to keep default, got %v", Ping())
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()

	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", ctx.Err())
	}
}
