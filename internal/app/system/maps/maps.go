// Package maps is the mapping collaborator: forward geocoding, driving
// routes and place suggestions.
//
// Every call is synchronous and bounded by the caller's context. Callers
// depend on the Service interface; Google backs it in production and
// Disabled stands in when no API key is configured.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/campusride/internal/domain/models"
)

var (
	// ErrNotConfigured is returned by Disabled.
	ErrNotConfigured = errors.New("maps: no API key configured")
	// ErrNoResults is returned when a lookup matched nothing.
	ErrNoResults = errors.New("maps: no results")
)

// Route is the driving distance and time between two points.
type Route struct {
	DistanceMeters  int           `json:"distanceMeters"`
	DurationSeconds int           `json:"durationSeconds"`
	DistanceText    string        `json:"distanceText,omitempty"`
	Duration        time.Duration `json:"-"`
}

// Place is an autocomplete suggestion.
type Place struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}

// Service is what the rest of the app needs from a map provider.
type Service interface {
	Geocode(ctx context.Context, address string) (models.Coords, error)
	Route(ctx context.Context, origin, destination models.Coords) (Route, error)
	Autocomplete(ctx context.Context, input string) ([]Place, error)
}

// Bounds is a south-west / north-east box used to bias lookups.
type Bounds struct {
	SouthWest models.Coords
	NorthEast models.Coords
}

// DefaultBounds covers Pune.
var DefaultBounds = Bounds{
	SouthWest: models.Coords{Lat: 18.4088, Lng: 73.7373},
	NorthEast: models.Coords{Lat: 18.6098, Lng: 73.9780},
}

// Center is the midpoint of b.
func (b Bounds) Center() models.Coords {
	return models.Coords{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

// Contains reports whether c lies inside b.
func (b Bounds) Contains(c models.Coords) bool {
	return c.Lat >= b.SouthWest.Lat && c.Lat <= b.NorthEast.Lat &&
		c.Lng >= b.SouthWest.Lng && c.Lng <= b.NorthEast.Lng
}

// ParseBounds reads "swLat,swLng,neLat,neLng". An empty string yields
// DefaultBounds.
func ParseBounds(s string) (Bounds, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultBounds, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("bounds %q: want 4 comma-separated numbers", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("bounds %q: %w", s, err)
		}
		v[i] = f
	}
	b := Bounds{
		SouthWest: models.Coords{Lat: v[0], Lng: v[1]},
		NorthEast: models.Coords{Lat: v[2], Lng: v[3]},
	}
	if b.SouthWest.Lat >= b.NorthEast.Lat || b.SouthWest.Lng >= b.NorthEast.Lng {
		return Bounds{}, fmt.Errorf("bounds %q: south-west corner must be below and left of north-east", s)
	}
	return b, nil
}

// Disabled fails every call with ErrNotConfigured.
type Disabled struct{}

func (Disabled) Geocode(context.Context, string) (models.Coords, error) {
	return models.Coords{}, ErrNotConfigured
}

func (Disabled) Route(context.Context, models.Coords, models.Coords) (Route, error) {
	return Route{}, ErrNotConfigured
}

func (Disabled) Autocomplete(context.Context, string) ([]Place, error) {
	return nil, ErrNotConfigured
}
