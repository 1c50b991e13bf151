package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", New(Validation, "bad"), http.StatusBadRequest},
		{"conflict", New(Conflict, "taken"), http.StatusBadRequest},
		{"not found", New(NotFound, "missing"), http.StatusNotFound},
		{"unauthorized", New(Unauthorized, "no"), http.StatusUnauthorized},
		{"forbidden", New(Forbidden, "no"), http.StatusForbidden},
		{"too many", New(TooManyRequests, "slow down"), http.StatusTooManyRequests},
		{"delivery", New(Delivery, "mail"), http.StatusInternalServerError},
		{"geocoding", New(Geocoding, "maps"), http.StatusInternalServerError},
		{"timeout", New(Timeout, "slow"), http.StatusGatewayTimeout},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"wrapped", fmt.Errorf("outer: %w", New(NotFound, "x")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrap_DeadlineBecomesTimeout(t *testing.T) {
	err := Wrap(Delivery, "send failed", fmt.Errorf("dial: %w", context.DeadlineExceeded))
	if err.Kind != Timeout {
		t.Errorf("expected Timeout kind, got %s", err.Kind)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected wrapped error to match context.DeadlineExceeded")
	}
}

func TestIs_MatchesKindAndMessage(t *testing.T) {
	sentinel := New(NotFound, "OTP expired or not found")
	err := fmt.Errorf("verify: %w", New(NotFound, "OTP expired or not found"))

	if !errors.Is(err, sentinel) {
		t.Error("expected errors.Is to match same kind and message")
	}
	if errors.Is(err, New(NotFound, "Ride not found")) {
		t.Error("expected different message not to match")
	}
	if !errors.Is(err, &Error{Kind: NotFound}) {
		t.Error("expected kind-only target to match")
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(errors.New("secret detail")); got != "Internal server error" {
		t.Errorf("expected generic message, got %q", got)
	}
	if got := PublicMessage(Wrap(Delivery, "Failed to send OTP", errors.New("smtp 550"))); got != "Failed to send OTP" {
		t.Errorf("expected public message, got %q", got)
	}
}

func TestFieldsOf(t *testing.T) {
	err := Invalid("Please fix the highlighted fields", map[string]string{"prn": "PRN must be exactly 8 digits"})
	fields := FieldsOf(fmt.Errorf("register: %w", err))
	if fields["prn"] == "" {
		t.Errorf("expected prn violation, got %v", fields)
	}
	if FieldsOf(errors.New("x")) != nil {
		t.Error("expected nil fields for unclassified error")
	}
}
