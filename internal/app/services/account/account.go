// Package account handles signup, email verification, login and profile
// stats.
package account

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/dalemusser/campusride/internal/app/services/otp"
	pendingstore "github.com/dalemusser/campusride/internal/app/store/pending"
	userstore "github.com/dalemusser/campusride/internal/app/store/users"
	"github.com/dalemusser/campusride/internal/app/system/apperr"
	"github.com/dalemusser/campusride/internal/app/system/authutil"
	"github.com/dalemusser/campusride/internal/app/system/metrics"
	"github.com/dalemusser/campusride/internal/app/system/normalize"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultPendingExpiry is how long an unverified signup is kept.
const DefaultPendingExpiry = 24 * time.Hour

var (
	ErrUserExists      = apperr.New(apperr.Conflict, "Email already registered")
	ErrUserNotFound    = apperr.New(apperr.NotFound, "User not found")
	ErrInvalidPassword = apperr.New(apperr.Unauthorized, "Invalid password")
	ErrMissingLogin    = apperr.New(apperr.Validation, "Email and password are required")
	ErrNoStats         = apperr.New(apperr.Validation, "No stats to update")
)

const (
	msgInvalidSignup = "Please correct the highlighted fields"
	msgInvalidStats  = "Stats must be non-negative and rating between 0 and 5"
)

// UserStore is the subset of the users store the service needs.
type UserStore interface {
	Get(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	SetStats(ctx context.Context, email string, upd userstore.StatsUpdate) (*models.User, error)
	SetPasswordHash(ctx context.Context, email, hash string) error
	MarkEmailVerified(ctx context.Context, email string) error
}

// PendingStore holds signups awaiting verification.
type PendingStore interface {
	Save(ctx context.Context, p models.PendingRegistration) error
	Get(ctx context.Context, email string) (*models.PendingRegistration, error)
	MarkVerified(ctx context.Context, email string, at, expiresAt time.Time) error
	Delete(ctx context.Context, email string) error
}

// Codes is the OTP registry.
type Codes interface {
	Issue(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) error
}

// Config tunes the service.
type Config struct {
	InstitutionDomain string
	PendingExpiry     time.Duration
}

// Session identifies a signed-in user.
type Session struct {
	Email string
	Name  string
	Role  string
}

func sessionFor(u *models.User) *Session {
	return &Session{Email: u.Email, Name: u.Name, Role: u.Role}
}

// LoginResult is returned by Login. When NeedsVerification is set a new code
// has been sent and no session should be created.
type LoginResult struct {
	User              *models.User
	NeedsVerification bool
}

// Service implements the account operations.
type Service struct {
	users   UserStore
	pending PendingStore
	codes   Codes
	cfg     Config
	now     func() time.Time
	log     *zap.Logger
}

// New creates a Service.
func New(users UserStore, pending PendingStore, codes Codes, cfg Config, logger *zap.Logger) *Service {
	if cfg.InstitutionDomain == "" {
		cfg.InstitutionDomain = "vit.edu"
	}
	if cfg.PendingExpiry <= 0 {
		cfg.PendingExpiry = DefaultPendingExpiry
	}
	return &Service{
		users:   users,
		pending: pending,
		codes:   codes,
		cfg:     cfg,
		now:     time.Now,
		log:     logger,
	}
}

// Validate normalizes r and checks it, returning a Validation error with
// per-field messages when it fails.
func (s *Service) Validate(r Registration) (Registration, error) {
	r = r.Normalized()
	res := ValidateRegistration(r, s.cfg.InstitutionDomain)
	if res.HasErrors() {
		return r, apperr.Invalid(msgInvalidSignup, res.Map())
	}
	return r, nil
}

// Register stores the signup server-side and sends a verification code. The
// user record is created by CompleteVerification.
func (s *Service) Register(ctx context.Context, r Registration) error {
	r, err := s.Validate(r)
	if err != nil {
		return err
	}
	if err := s.ensureAvailable(ctx, r.Email); err != nil {
		return err
	}

	hash, err := authutil.HashPassword(r.Password)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to register", err)
	}

	now := s.now().UTC()
	p := models.PendingRegistration{
		Email:        r.Email,
		Name:         r.Name,
		PRN:          r.PRN,
		Role:         r.Role,
		License:      r.License,
		Vehicle:      r.Vehicle,
		PasswordHash: hash,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.cfg.PendingExpiry),
	}
	if r.Role != models.RoleRider {
		p.License, p.Vehicle = "", ""
	}
	if err := s.pending.Save(ctx, p); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to register", err)
	}

	if err := s.codes.Issue(ctx, r.Email); err != nil {
		return err
	}
	s.log.Info("registration pending verification", zap.String("email", r.Email), zap.String("role", r.Role))
	return nil
}

// CompleteVerification consumes the code and activates the account.
//
// With a pending signup the user is created verified and a session returned.
// For an existing unverified user the flag is set and a session returned.
// Otherwise only a short-lived verified marker is recorded for a following
// SaveUser call, and the session is nil.
func (s *Service) CompleteVerification(ctx context.Context, email, code string) (*Session, error) {
	email = normalize.Email(email)
	if err := s.codes.Verify(ctx, email, code); err != nil {
		return nil, err
	}

	p, err := s.pending.Get(ctx, email)
	if err != nil && !errors.Is(err, pendingstore.ErrNotFound) {
		return nil, apperr.Wrap(apperr.Internal, "Failed to complete verification", err)
	}

	if p != nil && p.HasSignup() {
		u, err := s.users.Create(ctx, models.User{
			Email:         p.Email,
			Name:          p.Name,
			PRN:           p.PRN,
			Role:          p.Role,
			License:       p.License,
			Vehicle:       p.Vehicle,
			PasswordHash:  p.PasswordHash,
			EmailVerified: true,
			Rating:        models.DefaultRating,
		})
		if err != nil {
			if errors.Is(err, userstore.ErrDuplicateEmail) {
				return nil, ErrUserExists
			}
			return nil, apperr.Wrap(apperr.Internal, "Failed to create account", err)
		}
		if err := s.pending.Delete(ctx, email); err != nil {
			s.log.Warn("pending registration cleanup failed", zap.String("email", email), zap.Error(err))
		}
		s.log.Info("account created", zap.String("email", u.Email), zap.String("role", u.Role))
		return sessionFor(&u), nil
	}

	existing, err := s.users.Get(ctx, email)
	switch {
	case err == nil:
		if !existing.EmailVerified {
			if err := s.users.MarkEmailVerified(ctx, email); err != nil {
				return nil, apperr.Wrap(apperr.Internal, "Failed to complete verification", err)
			}
		}
		return sessionFor(existing), nil
	case !errors.Is(err, userstore.ErrNotFound):
		return nil, apperr.Wrap(apperr.Internal, "Failed to complete verification", err)
	}

	now := s.now().UTC()
	if err := s.pending.MarkVerified(ctx, email, now, now.Add(s.cfg.PendingExpiry)); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to complete verification", err)
	}
	return nil, nil
}

// SaveUser creates an account from a full signup form. The account is marked
// verified only if the email passed CompleteVerification beforehand; the
// client's own claim is ignored.
func (s *Service) SaveUser(ctx context.Context, r Registration) (*models.User, error) {
	r, err := s.Validate(r)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, r.Email); err != nil {
		return nil, err
	}

	verified := false
	p, err := s.pending.Get(ctx, r.Email)
	switch {
	case err == nil:
		verified = p.VerifiedAt != nil
	case !errors.Is(err, pendingstore.ErrNotFound):
		return nil, apperr.Wrap(apperr.Internal, "Failed to save user data", err)
	}

	hash, err := authutil.HashPassword(r.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to save user data", err)
	}

	u := models.User{
		Email:         r.Email,
		Name:          r.Name,
		PRN:           r.PRN,
		Role:          r.Role,
		PasswordHash:  hash,
		EmailVerified: verified,
		Rating:        models.DefaultRating,
	}
	if r.Role == models.RoleRider {
		u.License, u.Vehicle = r.License, r.Vehicle
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to save user data", err)
	}
	if p != nil {
		if err := s.pending.Delete(ctx, r.Email); err != nil {
			s.log.Warn("pending registration cleanup failed", zap.String("email", r.Email), zap.Error(err))
		}
	}
	return &created, nil
}

// Login checks the password. An unverified account gets a fresh code and
// NeedsVerification instead of a session.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return nil, ErrMissingLogin
	}

	u, err := s.users.Get(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			metrics.Logins.WithLabelValues("not_found").Inc()
			return nil, ErrUserNotFound
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to process login", err)
	}

	switch {
	case u.PasswordHash != "":
		if !authutil.CheckPassword(password, u.PasswordHash) {
			metrics.Logins.WithLabelValues("bad_password").Inc()
			return nil, ErrInvalidPassword
		}
	case authutil.CheckLegacyPassword(password, u.LegacyPassword):
		s.upgradeLegacyPassword(ctx, u.Email, password)
	default:
		metrics.Logins.WithLabelValues("bad_password").Inc()
		return nil, ErrInvalidPassword
	}

	if !u.EmailVerified {
		if err := s.codes.Issue(ctx, u.Email); err != nil && !errors.Is(err, otp.ErrResendTooSoon) {
			return nil, err
		}
		metrics.Logins.WithLabelValues("unverified").Inc()
		return &LoginResult{User: u, NeedsVerification: true}, nil
	}

	metrics.Logins.WithLabelValues("ok").Inc()
	return &LoginResult{User: u}, nil
}

func (s *Service) upgradeLegacyPassword(ctx context.Context, email, password string) {
	hash, err := authutil.HashPassword(password)
	if err == nil {
		err = s.users.SetPasswordHash(ctx, email, hash)
	}
	if err != nil {
		s.log.Warn("legacy password upgrade failed", zap.String("email", email), zap.Error(err))
		return
	}
	s.log.Info("legacy password upgraded", zap.String("email", email))
}

// GetUser returns the profile for email.
func (s *Service) GetUser(ctx context.Context, email string) (*models.User, error) {
	u, err := s.users.Get(ctx, normalize.Email(email))
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch user data", err)
	}
	return u, nil
}

// StatsPatch carries the stat fields a client may overwrite.
type StatsPatch struct {
	MoneySaved *float64 `json:"moneySaved"`
	Completed  *int     `json:"completed"`
	Rating     *float64 `json:"rating"`
}

// UpdateStats overwrites the given stats and returns the updated user.
func (s *Service) UpdateStats(ctx context.Context, email string, p StatsPatch) (*models.User, error) {
	upd := userstore.StatsUpdate{MoneySaved: p.MoneySaved, Completed: p.Completed, Rating: p.Rating}
	if upd.Empty() {
		return nil, ErrNoStats
	}

	fields := map[string]string{}
	if p.MoneySaved != nil && (*p.MoneySaved < 0 || math.IsNaN(*p.MoneySaved) || math.IsInf(*p.MoneySaved, 0)) {
		fields["moneySaved"] = "must be a non-negative number"
	}
	if p.Completed != nil && *p.Completed < 0 {
		fields["completed"] = "must be a non-negative number"
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5 || math.IsNaN(*p.Rating)) {
		fields["rating"] = "must be between 0 and 5"
	}
	if len(fields) > 0 {
		return nil, apperr.Invalid(msgInvalidStats, fields)
	}

	u, err := s.users.SetStats(ctx, normalize.Email(email), upd)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to update user stats", err)
	}
	return u, nil
}

func (s *Service) ensureAvailable(ctx context.Context, email string) error {
	_, err := s.users.Get(ctx, email)
	switch {
	case err == nil:
		return ErrUserExists
	case errors.Is(err, userstore.ErrNotFound):
		return nil
	default:
		return apperr.Wrap(apperr.Internal, "Failed to check account", err)
	}
}
