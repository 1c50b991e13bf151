// Package otp issues and verifies the six-digit email codes that gate
// registration and login.
package otp

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/campusride/internal/app/store/otpcodes"
	"github.com/dalemusser/campusride/internal/app/system/apperr"
	"github.com/dalemusser/campusride/internal/app/system/mailer"
	"github.com/dalemusser/campusride/internal/app/system/metrics"
	"github.com/dalemusser/campusride/internal/app/system/normalize"
	"github.com/dalemusser/campusride/internal/app/system/ratelimit"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultExpiry is how long an issued code stays valid.
	DefaultExpiry = 10 * time.Minute
	// DefaultResendCooldown is the minimum gap between two codes for one email.
	DefaultResendCooldown = 30 * time.Second
	// MaxVerifyAttempts locks a code after this many wrong guesses.
	MaxVerifyAttempts = 5
	// DefaultHashCost is the bcrypt cost for stored codes.
	DefaultHashCost = 10
	// expiredGrace keeps an expired code around long enough to report it as
	// expired instead of missing.
	expiredGrace = time.Hour
)

// Verification failures. They compare with errors.Is.
var (
	ErrNotFound        = apperr.New(apperr.Validation, "OTP expired or not found")
	ErrMismatch        = apperr.New(apperr.Validation, "Invalid OTP")
	ErrExpired         = apperr.New(apperr.Validation, "OTP expired")
	ErrTooManyAttempts = apperr.New(apperr.TooManyRequests, "Too many incorrect attempts. Please request a new OTP.")
	ErrResendTooSoon   = apperr.New(apperr.TooManyRequests, "Please wait before requesting another OTP")
	ErrEmailRequired   = apperr.New(apperr.Validation, "Email is required")
	ErrCodeRequired    = apperr.New(apperr.Validation, "Email and OTP are required")
)

// CodeStore persists the latest code per email.
type CodeStore interface {
	Put(ctx context.Context, c otpcodes.Code) error
	Get(ctx context.Context, email string) (*otpcodes.Code, error)
	IncAttempts(ctx context.Context, email string) (int, error)
	Delete(ctx context.Context, email string) error
	// Consume removes the code only if it still has codeHash and reports
	// whether this call removed it.
	Consume(ctx context.Context, email, codeHash string) (bool, error)
}

// Sender delivers an email.
type Sender interface {
	Send(ctx context.Context, e mailer.Email) error
}

// Config tunes the registry. Zero values take the package defaults.
type Config struct {
	SiteName       string
	Expiry         time.Duration
	ResendCooldown time.Duration
	HashCost       int
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCodeGenerator replaces the random code source.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.newCode = gen }
}

// Service is the OTP registry.
type Service struct {
	store   CodeStore
	mail    Sender
	cfg     Config
	resend  *ratelimit.Limiter
	now     func() time.Time
	newCode func() (string, error)
	log     *zap.Logger
}

// New creates a Service. Call Close to release the resend limiter.
func New(store CodeStore, mail Sender, cfg Config, logger *zap.Logger, opts ...Option) *Service {
	if cfg.Expiry <= 0 {
		cfg.Expiry = DefaultExpiry
	}
	if cfg.ResendCooldown <= 0 {
		cfg.ResendCooldown = DefaultResendCooldown
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = DefaultHashCost
	}
	if cfg.SiteName == "" {
		cfg.SiteName = "Student Ride Sharing"
	}

	s := &Service{
		store:   store,
		mail:    mail,
		cfg:     cfg,
		now:     time.Now,
		newCode: generateCode,
		log:     logger,
	}
	for _, o := range opts {
		o(s)
	}
	s.resend = ratelimit.NewWithClock(1, cfg.ResendCooldown, func() time.Time { return s.now() })
	return s
}

// Close stops the resend limiter's background eviction.
func (s *Service) Close() {
	s.resend.Stop()
}

// Expiry returns how long issued codes stay valid.
func (s *Service) Expiry() time.Duration {
	return s.cfg.Expiry
}

// Issue generates a fresh code for email, stores it in place of any earlier
// code, and mails it. A code that fails to send is discarded. Calls for the
// same email within the resend cooldown fail with ErrResendTooSoon.
func (s *Service) Issue(ctx context.Context, email string) error {
	email = normalize.Email(email)
	if email == "" {
		return ErrEmailRequired
	}

	if !s.resend.Allow(email) {
		metrics.OTPIssued.WithLabelValues("throttled").Inc()
		return ErrResendTooSoon
	}

	code, err := s.newCode()
	if err != nil {
		s.resend.Reset(email)
		return apperr.Wrap(apperr.Internal, "Failed to send OTP", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cfg.HashCost)
	if err != nil {
		s.resend.Reset(email)
		return apperr.Wrap(apperr.Internal, "Failed to send OTP", fmt.Errorf("hash code: %w", err))
	}

	now := s.now().UTC()
	rec := otpcodes.Code{
		Email:     email,
		CodeHash:  string(hash),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.Expiry),
		PurgeAt:   now.Add(s.cfg.Expiry + expiredGrace),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		s.resend.Reset(email)
		s.log.Error("otp store failed", zap.String("email", email), zap.Error(err))
		return apperr.Wrap(apperr.Internal, "Failed to send OTP", err)
	}

	msg := mailer.BuildOTPEmail(email, mailer.OTPEmailData{
		SiteName:  s.cfg.SiteName,
		Code:      code,
		ExpiresIn: humanMinutes(s.cfg.Expiry),
	})

	sendCtx, cancel := context.WithTimeout(ctx, timeouts.Upstream())
	err = s.mail.Send(sendCtx, msg)
	cancel()
	if err != nil {
		// The user never saw this code; drop it and give the cooldown back.
		if _, derr := s.store.Consume(context.WithoutCancel(ctx), email, rec.CodeHash); derr != nil {
			s.log.Warn("otp discard failed", zap.String("email", email), zap.Error(derr))
		}
		s.resend.Reset(email)
		metrics.OTPIssued.WithLabelValues("failed").Inc()
		metrics.UpstreamErrors.WithLabelValues("mail").Inc()
		s.log.Error("otp email send failed", zap.String("email", email), zap.Error(err))
		return apperr.Wrap(apperr.Delivery, "Failed to send OTP", err)
	}

	metrics.OTPIssued.WithLabelValues("sent").Inc()
	s.log.Info("otp issued", zap.String("email", email), zap.Time("expires_at", rec.ExpiresAt))
	return nil
}

// Verify consumes the code for email. It succeeds at most once per issued
// code. Failures are checked in order: no code, wrong code, expired code.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	email = normalize.Email(email)
	code = normalize.Code(code)
	if email == "" || code == "" {
		return ErrCodeRequired
	}

	rec, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, otpcodes.ErrNotFound) {
			metrics.OTPVerified.WithLabelValues("not_found").Inc()
			return ErrNotFound
		}
		return apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
	}

	if rec.Attempts >= MaxVerifyAttempts {
		metrics.OTPVerified.WithLabelValues("locked").Inc()
		return ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil {
		if _, err := s.store.IncAttempts(ctx, email); err != nil && !errors.Is(err, otpcodes.ErrNotFound) {
			s.log.Warn("otp attempt count failed", zap.String("email", email), zap.Error(err))
		}
		metrics.OTPVerified.WithLabelValues("mismatch").Inc()
		return ErrMismatch
	}

	if rec.Expired(s.now()) {
		if err := s.store.Delete(ctx, email); err != nil {
			s.log.Warn("otp delete failed", zap.String("email", email), zap.Error(err))
		}
		metrics.OTPVerified.WithLabelValues("expired").Inc()
		return ErrExpired
	}

	consumed, err := s.store.Consume(ctx, email, rec.CodeHash)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
	}
	if !consumed {
		metrics.OTPVerified.WithLabelValues("not_found").Inc()
		return ErrNotFound
	}
	s.resend.Reset(email)
	metrics.OTPVerified.WithLabelValues("ok").Inc()
	return nil
}

// generateCode returns a uniformly random six-digit code.
func generateCode() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	n := binary.BigEndian.Uint64(b) % 900000
	return fmt.Sprintf("%06d", n+100000), nil
}

func humanMinutes(d time.Duration) string {
	m := int(d.Round(time.Minute) / time.Minute)
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
