// internal/domain/models/ridehistory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// History roles, from the point of view of the user whose history is read.
const (
	HistoryRoleDriver    = "driver"
	HistoryRolePassenger = "passenger"
)

// RideHistoryRecord is the snapshot written when a ride is booked. It is never
// updated afterwards.
type RideHistoryRecord struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RideID primitive.ObjectID `bson:"ride_id" json:"rideId"`

	From       string    `bson:"from" json:"from"`
	To         string    `bson:"to" json:"to"`
	FromCoords Coords    `bson:"from_coords" json:"fromCoords"`
	ToCoords   Coords    `bson:"to_coords" json:"toCoords"`
	DateTime   time.Time `bson:"date_time" json:"dateTime"`
	Price      float64   `bson:"price" json:"price"`

	Driver         string `bson:"driver" json:"driver"`
	DriverEmail    string `bson:"driver_email" json:"driverEmail"`
	PassengerEmail string `bson:"passenger_email" json:"passengerEmail"`

	Status   string    `bson:"status" json:"status"`
	BookedAt time.Time `bson:"booked_at" json:"bookedAt"`
	Rating   int       `bson:"rating" json:"rating"`

	// Role is set when reading a user's history; it is not stored.
	Role string `bson:"-" json:"role,omitempty"`
}
