// Package events publishes ride lifecycle notifications to a message broker.
//
// Publishing is best effort: a failure is logged by the caller and never
// fails the request that produced the event.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types, also used as routing keys.
const (
	RidePosted = "ride.posted"
	RideBooked = "ride.booked"
)

// Event is the JSON body sent to the broker.
type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	RideID         string    `json:"rideId"`
	DriverEmail    string    `json:"driverEmail"`
	PassengerEmail string    `json:"passengerEmail,omitempty"`
	From           string    `json:"from,omitempty"`
	To             string    `json:"to,omitempty"`
	DateTime       time.Time `json:"dateTime"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// NewEvent stamps a fresh id and time on an event of type typ.
func NewEvent(typ, rideID, driverEmail string) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        typ,
		RideID:      rideID,
		DriverEmail: driverEmail,
		OccurredAt:  time.Now().UTC(),
	}
}

// Publisher sends events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
