package geo_test

import (
	"math"
	"testing"

	"github.com/dalemusser/campusride/internal/app/system/geo"
)

var samplePoints = []geo.Point{
	{Lat: 18.4636, Lng: 73.8682}, // VIT Pune
	{Lat: 18.5196, Lng: 73.8553}, // Shivajinagar
	{Lat: 18.5203, Lng: 73.8567},
	{Lat: 0, Lng: 0},
	{Lat: -33.8688, Lng: 151.2093},
	{Lat: 89.9, Lng: -179.9},
}

func TestGreatCircleDistance_SamePointIsZero(t *testing.T) {
	for _, p := range samplePoints {
		if d := geo.GreatCircleDistance(p.Lat, p.Lng, p.Lat, p.Lng); d != 0 {
			t.Errorf("distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestGreatCircleDistance_Symmetric(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			ab := geo.Distance(a, b)
			ba := geo.Distance(b, a)
			if math.Abs(ab-ba) > 1e-6 {
				t.Errorf("d(%v,%v)=%v but d(%v,%v)=%v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestGreatCircleDistance_KnownValues(t *testing.T) {
	tests := []struct {
		name      string
		a, b      geo.Point
		want      float64
		tolerance float64
	}{
		{"one degree of latitude", geo.Point{Lat: 0, Lng: 0}, geo.Point{Lat: 1, Lng: 0}, 111195, 5},
		{"quarter meridian", geo.Point{Lat: 0, Lng: 0}, geo.Point{Lat: 90, Lng: 0}, math.Pi / 2 * geo.EarthRadiusMeters, 1},
		{"VIT to Shivajinagar", samplePoints[0], samplePoints[1], 6380, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geo.Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("expected ~%v m, got %v m", tt.want, got)
			}
		})
	}
}

func TestGreatCircleDistance_NaNNeverWithin(t *testing.T) {
	d := geo.GreatCircleDistance(math.NaN(), 0, 0, 0)
	if !math.IsNaN(d) {
		t.Fatalf("expected NaN, got %v", d)
	}
	if geo.Within(geo.Point{Lat: math.NaN()}, geo.Point{}, 1e9) {
		t.Error("expected NaN distance to never be within radius")
	}
}

func TestWithin(t *testing.T) {
	near := samplePoints[1]
	alsoNear := samplePoints[2]
	if !geo.Within(near, alsoNear, geo.DefaultNearbyRadius) {
		t.Errorf("expected %v to be within %v m of %v", alsoNear, geo.DefaultNearbyRadius, near)
	}
	if geo.Within(samplePoints[0], near, geo.DefaultNearbyRadius) {
		t.Error("expected VIT to be outside 500 m of Shivajinagar")
	}
}
