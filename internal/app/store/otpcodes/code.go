// Package otpcodes persists one-time passcodes keyed by email.
package otpcodes

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no code is stored for an email.
var ErrNotFound = errors.New("otp code not found")

// Code is the stored state of the latest passcode issued to an email. Only
// the bcrypt hash of the digits is kept.
type Code struct {
	Email     string    `bson:"_id"`
	CodeHash  string    `bson:"code_hash"`
	Attempts  int       `bson:"attempts"` // failed verification attempts
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
	// PurgeAt is when the record may be physically removed. It trails
	// ExpiresAt so that verifying a stale code reports "expired" rather
	// than "not found".
	PurgeAt time.Time `bson:"purge_at"`
}

// Expired reports whether the code is no longer valid at now.
func (c *Code) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
