package rides

import (
	"context"
	"sort"
	"strings"

	"github.com/dalemusser/campusride/internal/app/system/apperr"
	"github.com/dalemusser/campusride/internal/app/system/geo"
	"github.com/dalemusser/campusride/internal/app/system/inputval"
	"github.com/dalemusser/campusride/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

// Criteria narrows a search. Empty fields match everything.
type Criteria struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"` // YYYY-MM-DD
}

// Search returns active rides matching c, earliest departure first.
//
// From and To are case-insensitive substring matches on the place names;
// Date matches the calendar day in the service time zone. Rides without a
// departure time are skipped.
func (s *Service) Search(ctx context.Context, c Criteria) ([]models.Ride, error) {
	c.From = strings.TrimSpace(c.From)
	c.To = strings.TrimSpace(c.To)
	c.Date = strings.TrimSpace(c.Date)
	if c.Date != "" && !inputval.IsDate(c.Date) {
		return nil, apperr.Invalid("Invalid search", map[string]string{"date": "Date must be YYYY-MM-DD"})
	}

	all, err := s.rides.ListActive(ctx)
	if err != nil {
		return nil, internal("Failed to search rides", err)
	}

	from, to := text.Fold(c.From), text.Fold(c.To)
	out := make([]models.Ride, 0, len(all))
	for _, r := range all {
		if from != "" && !strings.Contains(text.Fold(r.From), from) {
			continue
		}
		if to != "" && !strings.Contains(text.Fold(r.To), to) {
			continue
		}
		if r.DateTime.IsZero() {
			s.log.Warn("skipping ride without departure time", zap.String("ride_id", r.ID.Hex()))
			continue
		}
		if c.Date != "" && r.DateTime.In(s.cfg.Location).Format(dateLayout) != c.Date {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateTime.Before(out[j].DateTime)
	})
	return out, nil
}

// Nearby is Search followed by FilterByProximity around origin. A radius of
// zero or less uses the configured default.
func (s *Service) Nearby(ctx context.Context, c Criteria, origin *models.Coords, radius float64) ([]models.Ride, error) {
	found, err := s.Search(ctx, c)
	if err != nil {
		return nil, err
	}
	if radius <= 0 {
		radius = s.cfg.NearbyRadius
	}
	return FilterByProximity(found, origin, radius), nil
}

// FilterByProximity keeps rides whose pickup point is within radius meters of
// origin. With a nil origin the input is returned unchanged.
func FilterByProximity(rides []models.Ride, origin *models.Coords, radius float64) []models.Ride {
	if origin == nil {
		return rides
	}
	center := geo.Point{Lat: origin.Lat, Lng: origin.Lng}
	out := make([]models.Ride, 0, len(rides))
	for _, r := range rides {
		if geo.Within(center, geo.Point{Lat: r.FromCoords.Lat, Lng: r.FromCoords.Lng}, radius) {
			out = append(out, r)
		}
	}
	return out
}
