// internal/app/system/maps/google.go
package maps

import (
	"context"
	"fmt"
	"math"

	"github.com/dalemusser/campusride/internal/app/system/geo"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.uber.org/zap"
	gmaps "googlemaps.github.io/maps"
)

// Google implements Service with the Google Maps web services.
type Google struct {
	client  *gmaps.Client
	bounds  Bounds
	region  string
	country string
	log     *zap.Logger
}

// NewGoogle builds a client for apiKey. Lookups are biased to bounds and
// autocomplete is restricted to country (ISO 3166-1 alpha-2, e.g. "in").
// Extra options are passed to the underlying client.
func NewGoogle(apiKey string, bounds Bounds, country string, logger *zap.Logger, opts ...gmaps.ClientOption) (*Google, error) {
	opts = append([]gmaps.ClientOption{gmaps.WithAPIKey(apiKey)}, opts...)
	c, err := gmaps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return &Google{client: c, bounds: bounds, region: country, country: country, log: logger}, nil
}

// Geocode returns the first match for address.
func (g *Google) Geocode(ctx context.Context, address string) (models.Coords, error) {
	res, err := g.client.Geocode(ctx, &gmaps.GeocodingRequest{
		Address: address,
		Bounds:  g.latLngBounds(),
		Region:  g.region,
	})
	if err != nil {
		return models.Coords{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(res) == 0 {
		g.log.Debug("geocode returned no results", zap.String("address", address))
		return models.Coords{}, ErrNoResults
	}
	loc := res[0].Geometry.Location
	return models.Coords{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// Route returns the first driving route between origin and destination.
func (g *Google) Route(ctx context.Context, origin, destination models.Coords) (Route, error) {
	routes, _, err := g.client.Directions(ctx, &gmaps.DirectionsRequest{
		Origin:      latLngString(origin),
		Destination: latLngString(destination),
		Mode:        gmaps.TravelModeDriving,
		Region:      g.region,
	})
	if err != nil {
		return Route{}, fmt.Errorf("directions: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, ErrNoResults
	}

	var out Route
	for _, leg := range routes[0].Legs {
		out.DistanceMeters += leg.Distance.Meters
		out.Duration += leg.Duration
	}
	out.DurationSeconds = int(math.Round(out.Duration.Seconds()))
	if len(routes[0].Legs) == 1 {
		out.DistanceText = routes[0].Legs[0].Distance.HumanReadable
	}
	return out, nil
}

// Autocomplete returns suggestions for input around the configured area.
func (g *Google) Autocomplete(ctx context.Context, input string) ([]Place, error) {
	center := g.bounds.Center()
	loc := &gmaps.LatLng{Lat: center.Lat, Lng: center.Lng}

	req := &gmaps.PlaceAutocompleteRequest{
		Input:        input,
		Location:     loc,
		Radius:       g.radiusMeters(),
		StrictBounds: true,
	}
	if g.country != "" {
		req.Components = map[gmaps.Component][]string{gmaps.ComponentCountry: {g.country}}
	}

	resp, err := g.client.PlaceAutocomplete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	out := make([]Place, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Place{Description: p.Description, PlaceID: p.PlaceID})
	}
	return out, nil
}

func (g *Google) latLngBounds() *gmaps.LatLngBounds {
	return &gmaps.LatLngBounds{
		SouthWest: gmaps.LatLng{Lat: g.bounds.SouthWest.Lat, Lng: g.bounds.SouthWest.Lng},
		NorthEast: gmaps.LatLng{Lat: g.bounds.NorthEast.Lat, Lng: g.bounds.NorthEast.Lng},
	}
}

// radiusMeters is half the bounds diagonal.
func (g *Google) radiusMeters() uint {
	sw, ne := g.bounds.SouthWest, g.bounds.NorthEast
	d := geo.GreatCircleDistance(sw.Lat, sw.Lng, ne.Lat, ne.Lng)
	return uint(d / 2)
}

func latLngString(c models.Coords) string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}
