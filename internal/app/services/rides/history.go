package rides

import (
	"context"
	"errors"
	"sort"

	ridestore "github.com/dalemusser/campusride/internal/app/store/rides"
	"github.com/dalemusser/campusride/internal/app/system/apperr"
	"github.com/dalemusser/campusride/internal/app/system/maps"
	"github.com/dalemusser/campusride/internal/app/system/metrics"
	"github.com/dalemusser/campusride/internal/app/system/normalize"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// History returns the booking records where email was the driver or the
// passenger, each tagged with that role, newest departure first.
func (s *Service) History(ctx context.Context, email string) ([]models.RideHistoryRecord, error) {
	email = normalize.Email(email)

	var driven, taken []models.RideHistoryRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		driven, err = s.history.ByDriver(gctx, email)
		return err
	})
	g.Go(func() error {
		var err error
		taken, err = s.history.ByPassenger(gctx, email)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internal("Failed to fetch ride history", err)
	}

	out := make([]models.RideHistoryRecord, 0, len(driven)+len(taken))
	for _, r := range driven {
		r.Role = models.HistoryRoleDriver
		out = append(out, r)
	}
	for _, r := range taken {
		r.Role = models.HistoryRolePassenger
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateTime.After(out[j].DateTime)
	})
	return out, nil
}

// UserRides returns the finished (completed or cancelled) rides email drove
// or took, newest first.
func (s *Service) UserRides(ctx context.Context, email string) ([]models.Ride, error) {
	rides, err := s.rides.ListForUser(ctx, normalize.Email(email), models.RideCompleted, models.RideCancelled)
	if err != nil {
		return nil, internal("Failed to fetch rides", err)
	}
	return rides, nil
}

// Get returns a single ride.
func (s *Service) Get(ctx context.Context, rideID string) (*models.Ride, error) {
	id, err := parseRideID(rideID)
	if err != nil {
		return nil, err
	}
	r, err := s.rides.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ridestore.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, internal("Failed to fetch ride", err)
	}
	return r, nil
}

// RouteFor returns the driving distance and duration between a ride's
// endpoints.
func (s *Service) RouteFor(ctx context.Context, rideID string) (maps.Route, error) {
	r, err := s.Get(ctx, rideID)
	if err != nil {
		return maps.Route{}, err
	}
	if !r.FromCoords.Valid() || !r.ToCoords.Valid() {
		return maps.Route{}, ErrNoCoordinates
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Upstream(), s.log, "route")
	defer cancel()

	route, err := s.maps.Route(ctx, r.FromCoords, r.ToCoords)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("maps").Inc()
		s.log.Warn("route lookup failed", zap.String("ride_id", rideID), zap.Error(err))
		return maps.Route{}, apperr.Wrap(apperr.Geocoding, "Could not compute route", err)
	}
	return route, nil
}
