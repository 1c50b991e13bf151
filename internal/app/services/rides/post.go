package rides

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	userstore "github.com/dalemusser/campusride/internal/app/store/users"
	"github.com/dalemusser/campusride/internal/app/system/apperr"
	"github.com/dalemusser/campusride/internal/app/system/events"
	"github.com/dalemusser/campusride/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campusride/internal/app/system/inputval"
	"github.com/dalemusser/campusride/internal/app/system/metrics"
	"github.com/dalemusser/campusride/internal/app/system/normalize"
	"github.com/dalemusser/campusride/internal/app/system/timeouts"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.uber.org/zap"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// PostInput is a ride as submitted by a driver. Either Date and Time or the
// ISO DateTime must be given. Coordinates are optional; missing ones are
// geocoded from the place names.
type PostInput struct {
	From        string         `json:"from"`
	To          string         `json:"to"`
	Date        string         `json:"date"`
	Time        string         `json:"time"`
	DateTime    string         `json:"dateTime"`
	Seats       int            `json:"seats"`
	Price       float64        `json:"price"`
	Driver      string         `json:"driver"`
	DriverEmail string         `json:"driverEmail"`
	FromCoords  *models.Coords `json:"fromCoords"`
	ToCoords    *models.Coords `json:"toCoords"`
}

// Post validates in, resolves coordinates, stores an active ride and credits
// the driver's totalRides.
func (s *Service) Post(ctx context.Context, in PostInput) (*models.Ride, error) {
	in.From = htmlsanitize.PlainText(strings.TrimSpace(in.From))
	in.To = htmlsanitize.PlainText(strings.TrimSpace(in.To))
	in.Driver = normalize.Name(htmlsanitize.PlainText(in.Driver))
	in.DriverEmail = normalize.Email(in.DriverEmail)

	var res inputval.Result
	if in.From == "" {
		res.Add("from", "Pickup location is required")
	}
	if in.To == "" {
		res.Add("to", "Destination is required")
	}
	if in.DriverEmail == "" {
		res.Add("driverEmail", "Driver email is required")
	}
	if in.Seats < 1 {
		res.Add("seats", "At least one seat is required")
	}
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		res.Add("price", "Price cannot be negative")
	}
	when, problem := s.departure(in)
	if problem != "" {
		res.Add("date", problem)
	} else if s.inPast(when) {
		res.Add("date", "Ride date cannot be in the past")
	}
	if res.HasErrors() {
		return nil, apperr.Invalid("Please correct the ride details", res.Map())
	}

	driver, err := s.users.Get(ctx, in.DriverEmail)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internal("Failed to post ride", err)
	}
	if in.Driver == "" {
		in.Driver = driver.Name
	}

	fromCoords, err := s.resolve(ctx, in.From, in.FromCoords)
	if err != nil {
		return nil, err
	}
	toCoords, err := s.resolve(ctx, in.To, in.ToCoords)
	if err != nil {
		return nil, err
	}

	local := when.In(s.cfg.Location)
	ride := &models.Ride{
		From:        in.From,
		To:          in.To,
		FromCoords:  fromCoords,
		ToCoords:    toCoords,
		Date:        local.Format(dateLayout),
		Time:        local.Format(clockLayout),
		DateTime:    when.UTC(),
		Seats:       in.Seats,
		Price:       in.Price,
		Driver:      in.Driver,
		DriverEmail: driver.Email,
		Status:      models.RideActive,
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.rides.Insert(ctx, ride); err != nil {
			return err
		}
		return s.users.IncStats(ctx, driver.Email, 1, 0)
	})
	if err != nil {
		return nil, internal("Failed to post ride", err)
	}

	metrics.RidesPosted.Inc()
	s.log.Info("ride posted",
		zap.String("ride_id", ride.ID.Hex()),
		zap.String("driver", ride.DriverEmail),
		zap.Time("date_time", ride.DateTime))

	e := events.NewEvent(events.RidePosted, ride.ID.Hex(), ride.DriverEmail)
	e.From, e.To, e.DateTime = ride.From, ride.To, ride.DateTime
	s.publish(ctx, e)

	return ride, nil
}

// departure reads the ride time from Date+Time in the service zone, falling
// back to the ISO DateTime. A non-empty problem describes why it could not.
func (s *Service) departure(in PostInput) (when time.Time, problem string) {
	date, clock := strings.TrimSpace(in.Date), strings.TrimSpace(in.Time)
	if date != "" || clock != "" {
		if !inputval.IsDate(date) {
			return time.Time{}, "Date must be YYYY-MM-DD"
		}
		if !inputval.IsClockTime(clock) {
			return time.Time{}, "Time must be HH:MM"
		}
		t, err := time.ParseInLocation(dateLayout+" "+clockLayout, date+" "+clock, s.cfg.Location)
		if err != nil {
			return time.Time{}, "Invalid date or time"
		}
		return t, ""
	}
	if iso := strings.TrimSpace(in.DateTime); iso != "" {
		t, err := time.Parse(time.RFC3339, iso)
		if err != nil {
			return time.Time{}, "Invalid date or time"
		}
		return t, ""
	}
	return time.Time{}, "Date and time are required"
}

// inPast reports whether t falls on a calendar day before today. A ride
// earlier today is still accepted.
func (s *Service) inPast(t time.Time) bool {
	today := s.now().In(s.cfg.Location).Format(dateLayout)
	return t.In(s.cfg.Location).Format(dateLayout) < today
}

// resolve returns given when it is a usable coordinate, otherwise geocodes
// place.
func (s *Service) resolve(ctx context.Context, place string, given *models.Coords) (models.Coords, error) {
	if given != nil && given.Valid() {
		return *given, nil
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Upstream(), s.log, "geocode")
	defer cancel()

	c, err := s.maps.Geocode(ctx, place)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("maps").Inc()
		s.log.Warn("geocode failed", zap.String("place", place), zap.Error(err))
		return models.Coords{}, apperr.Wrap(apperr.Geocoding, "Could not find location: "+place, err)
	}
	return c, nil
}
