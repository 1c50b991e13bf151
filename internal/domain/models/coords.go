// internal/domain/models/coords.go
package models

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Coords is a lat/lng pair.
//
// Over the wire it is {"lat": .., "lng": ..}; in Mongo it is stored as
// {latitude, longitude}. Documents written with lat/lng keys are still read.
type Coords struct {
	Lat float64 `bson:"latitude" json:"lat"`
	Lng float64 `bson:"longitude" json:"lng"`
}

// IsZero reports whether both components are zero (no location known).
func (c Coords) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// Valid reports whether the pair is inside the WGS84 range and not zero.
func (c Coords) Valid() bool {
	if c.IsZero() {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// UnmarshalBSON accepts both the stored {latitude, longitude} form and the
// {lat, lng} form older documents used.
func (c *Coords) UnmarshalBSON(data []byte) error {
	var raw struct {
		Latitude  *float64 `bson:"latitude"`
		Longitude *float64 `bson:"longitude"`
		Lat       *float64 `bson:"lat"`
		Lng       *float64 `bson:"lng"`
	}
	if err := bson.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Coords{}
	switch {
	case raw.Latitude != nil:
		c.Lat = *raw.Latitude
	case raw.Lat != nil:
		c.Lat = *raw.Lat
	}
	switch {
	case raw.Longitude != nil:
		c.Lng = *raw.Longitude
	case raw.Lng != nil:
		c.Lng = *raw.Lng
	}
	return nil
}
