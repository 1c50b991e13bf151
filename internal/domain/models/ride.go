// internal/domain/models/ride.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ride statuses. A ride is created active and moves to booked at most once;
// completed and cancelled are terminal.
const (
	RideActive    = "active"
	RideBooked    = "booked"
	RideCompleted = "completed"
	RideCancelled = "cancelled"
)

// Ride is a carpool trip posted by a driver.
type Ride struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From       string             `bson:"from" json:"from"`
	To         string             `bson:"to" json:"to"`
	FromCoords Coords             `bson:"from_coords" json:"fromCoords"`
	ToCoords   Coords             `bson:"to_coords" json:"toCoords"`

	Date     string    `bson:"date" json:"date"` // YYYY-MM-DD in the service time zone
	Time     string    `bson:"time" json:"time"` // HH:MM
	DateTime time.Time `bson:"date_time" json:"dateTime"`

	Seats int     `bson:"seats" json:"seats"`
	Price float64 `bson:"price" json:"price"`

	Driver      string `bson:"driver" json:"driver"`
	DriverEmail string `bson:"driver_email" json:"driverEmail"`

	Status         string     `bson:"status" json:"status"`
	PassengerEmail string     `bson:"passenger_email,omitempty" json:"passengerEmail,omitempty"`
	BookedAt       *time.Time `bson:"booked_at,omitempty" json:"bookedAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
