// Package rides is the ride directory: posting, searching, booking and the
// per-user history views.
package rides

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campusride/internal/app/system/apperr"
	"github.com/dalemusser/campusride/internal/app/system/events"
	"github.com/dalemusser/campusride/internal/app/system/geo"
	"github.com/dalemusser/campusride/internal/app/system/maps"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// DefaultTimeZone is where ride dates and times are interpreted.
	DefaultTimeZone = "Asia/Kolkata"
	// DefaultMoneySavedRatio is the share of the fare credited to a
	// passenger's moneySaved on booking.
	DefaultMoneySavedRatio = 0.5
)

var (
	ErrRideNotFound   = apperr.New(apperr.NotFound, "Ride not found")
	ErrNotAvailable   = apperr.New(apperr.Conflict, "Ride is no longer available")
	ErrOwnRide        = apperr.New(apperr.Validation, "You cannot book your own ride")
	ErrUserNotFound   = apperr.New(apperr.NotFound, "User not found")
	ErrNoCoordinates  = apperr.New(apperr.Validation, "Ride has no coordinates")
	ErrAlreadyHistory = apperr.New(apperr.Conflict, "Ride has already been booked")
)

// RideStore is the rides collection.
type RideStore interface {
	Insert(ctx context.Context, r *models.Ride) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)
	ListActive(ctx context.Context) ([]models.Ride, error)
	ListForUser(ctx context.Context, email string, statuses ...string) ([]models.Ride, error)
	Claim(ctx context.Context, id primitive.ObjectID, passengerEmail string, at time.Time) (*models.Ride, error)
	Release(ctx context.Context, id primitive.ObjectID, passengerEmail string) (bool, error)
}

// HistoryStore is the rideHistory collection.
type HistoryStore interface {
	Insert(ctx context.Context, rec *models.RideHistoryRecord) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ByDriver(ctx context.Context, email string) ([]models.RideHistoryRecord, error)
	ByPassenger(ctx context.Context, email string) ([]models.RideHistoryRecord, error)
}

// UserStore is the part of the users collection rides touch.
type UserStore interface {
	Get(ctx context.Context, email string) (*models.User, error)
	IncStats(ctx context.Context, email string, rides int, moneySaved float64) error
}

// Transactor runs fn as one unit of work.
type Transactor interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config tunes the service.
type Config struct {
	Location        *time.Location
	MoneySavedRatio float64
	NearbyRadius    float64 // meters
}

// Deps are the collaborators of the service. Maps, Events and Tx are
// optional.
type Deps struct {
	Rides   RideStore
	History HistoryStore
	Users   UserStore
	Maps    maps.Service
	Events  events.Publisher
	Tx      Transactor
}

// Service implements the ride operations.
type Service struct {
	rides   RideStore
	history HistoryStore
	users   UserStore
	maps    maps.Service
	events  events.Publisher
	tx      Transactor
	cfg     Config
	now     func() time.Time
	log     *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service.
func New(d Deps, cfg Config, logger *zap.Logger, opts ...Option) *Service {
	if cfg.Location == nil {
		loc, err := time.LoadLocation(DefaultTimeZone)
		if err != nil {
			loc = time.UTC
		}
		cfg.Location = loc
	}
	if cfg.MoneySavedRatio <= 0 {
		cfg.MoneySavedRatio = DefaultMoneySavedRatio
	}
	if cfg.NearbyRadius <= 0 {
		cfg.NearbyRadius = geo.DefaultNearbyRadius
	}
	s := &Service{
		rides:   d.Rides,
		history: d.History,
		users:   d.Users,
		maps:    d.Maps,
		events:  d.Events,
		tx:      d.Tx,
		cfg:     cfg,
		now:     time.Now,
		log:     logger,
	}
	if s.maps == nil {
		s.maps = maps.Disabled{}
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Location is the time zone ride dates are read in.
func (s *Service) Location() *time.Location { return s.cfg.Location }

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.Run(ctx, fn)
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("event publish failed",
			zap.String("type", e.Type),
			zap.String("ride_id", e.RideID),
			zap.Error(err))
	}
}

// parseRideID treats a malformed id as a missing ride.
func parseRideID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrRideNotFound
	}
	return oid, nil
}

func internal(msg string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Wrap(apperr.Internal, msg, err)
}
