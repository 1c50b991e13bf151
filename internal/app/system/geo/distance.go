// Package geo provides great-circle distance helpers for ride matching.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// DefaultNearbyRadius is the pickup radius used when a caller gives none.
const DefaultNearbyRadius = 500.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// GreatCircleDistance returns the haversine distance in meters between two
// points given in degrees. Non-finite inputs yield a non-finite result.
func GreatCircleDistance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Distance is GreatCircleDistance for two Points.
func Distance(a, b Point) float64 {
	return GreatCircleDistance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// Within reports whether b lies within radius meters of a. NaN distances are
// never within any radius.
func Within(a, b Point, radius float64) bool {
	return Distance(a, b) <= radius
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
