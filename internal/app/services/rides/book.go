package rides

import (
	"context"
	"errors"

	historystore "github.com/dalemusser/campusride/internal/app/store/ridehistory"
	ridestore "github.com/dalemusser/campusride/internal/app/store/rides"
	userstore "github.com/dalemusser/campusride/internal/app/store/users"
	"github.com/dalemusser/campusride/internal/app/system/events"
	"github.com/dalemusser/campusride/internal/app/system/metrics"
	"github.com/dalemusser/campusride/internal/app/system/normalize"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Booking is the outcome of a successful Book.
type Booking struct {
	Ride      *models.Ride
	HistoryID string
}

// Book claims an active ride for passengerEmail. At most one concurrent
// caller wins; the others get ErrNotAvailable.
//
// The claim, the history record and the passenger's stats are written as one
// unit when the database supports transactions. Without them the claim alone
// still decides the winner, and a booking that fails after its claim is
// backed out so the ride returns to active.
func (s *Service) Book(ctx context.Context, rideID, passengerEmail string) (*Booking, error) {
	id, err := parseRideID(rideID)
	if err != nil {
		return nil, err
	}
	passengerEmail = normalize.Email(passengerEmail)

	ride, err := s.rides.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ridestore.ErrNotFound) {
			metrics.Bookings.WithLabelValues("not_found").Inc()
			return nil, ErrRideNotFound
		}
		return nil, s.bookFailed(internal("Failed to book ride", err))
	}
	if ride.DriverEmail == passengerEmail {
		return nil, ErrOwnRide
	}
	if ride.Status != models.RideActive {
		metrics.Bookings.WithLabelValues("conflict").Inc()
		return nil, ErrNotAvailable
	}

	if _, err := s.users.Get(ctx, passengerEmail); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, s.bookFailed(internal("Failed to book ride", err))
	}

	var (
		booked   *models.Ride
		rec      models.RideHistoryRecord
		recorded bool
	)
	err = s.inTx(ctx, func(ctx context.Context) error {
		booked, recorded = nil, false
		now := s.now().UTC()
		r, err := s.rides.Claim(ctx, id, passengerEmail, now)
		if err != nil {
			return err
		}
		booked = r

		rec = models.RideHistoryRecord{
			RideID:         r.ID,
			From:           r.From,
			To:             r.To,
			FromCoords:     r.FromCoords,
			ToCoords:       r.ToCoords,
			DateTime:       r.DateTime,
			Price:          r.Price,
			Driver:         r.Driver,
			DriverEmail:    r.DriverEmail,
			PassengerEmail: passengerEmail,
			Status:         models.RideBooked,
			BookedAt:       now,
		}
		if err := s.history.Insert(ctx, &rec); err != nil {
			return err
		}
		recorded = true
		return s.users.IncStats(ctx, passengerEmail, 1, r.Price*s.cfg.MoneySavedRatio)
	})
	if err != nil && booked != nil {
		var histID primitive.ObjectID
		if recorded {
			histID = rec.ID
		}
		s.unbook(ctx, id, passengerEmail, histID)
	}
	switch {
	case err == nil:
	case errors.Is(err, ridestore.ErrNotFound):
		metrics.Bookings.WithLabelValues("not_found").Inc()
		return nil, ErrRideNotFound
	case errors.Is(err, ridestore.ErrNotAvailable):
		metrics.Bookings.WithLabelValues("conflict").Inc()
		return nil, ErrNotAvailable
	case errors.Is(err, historystore.ErrDuplicate):
		metrics.Bookings.WithLabelValues("conflict").Inc()
		return nil, ErrAlreadyHistory
	default:
		return nil, s.bookFailed(internal("Failed to book ride", err))
	}

	metrics.Bookings.WithLabelValues("booked").Inc()
	s.log.Info("ride booked",
		zap.String("ride_id", booked.ID.Hex()),
		zap.String("passenger", passengerEmail),
		zap.String("history_id", rec.ID.Hex()))

	e := events.NewEvent(events.RideBooked, booked.ID.Hex(), booked.DriverEmail)
	e.PassengerEmail = passengerEmail
	e.From, e.To, e.DateTime = booked.From, booked.To, booked.DateTime
	s.publish(ctx, e)

	return &Booking{Ride: booked, HistoryID: rec.ID.Hex()}, nil
}

// unbook backs out the writes of a failed booking that ran without a
// transaction. After an aborted transaction there is nothing to match and
// both writes are no-ops.
func (s *Service) unbook(ctx context.Context, id primitive.ObjectID, passengerEmail string, historyID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
	defer cancel()

	if !historyID.IsZero() {
		if err := s.history.Delete(ctx, historyID); err != nil {
			s.log.Error("booking rollback: history delete failed",
				zap.String("history_id", historyID.Hex()), zap.Error(err))
		}
	}
	released, err := s.rides.Release(ctx, id, passengerEmail)
	if err != nil {
		s.log.Error("booking rollback: ride release failed",
			zap.String("ride_id", id.Hex()), zap.String("passenger", passengerEmail), zap.Error(err))
		return
	}
	if released {
		s.log.Warn("booking rolled back", zap.String("ride_id", id.Hex()), zap.String("passenger", passengerEmail))
	}
}

func (s *Service) bookFailed(err error) error {
	metrics.Bookings.WithLabelValues("error").Inc()
	s.log.Error("booking failed", zap.Error(err))
	return err
}
