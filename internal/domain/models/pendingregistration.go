// internal/domain/models/pendingregistration.go
package models

import "time"

// PendingRegistration holds a validated signup until its email is verified.
// VerifiedAt is set instead when a code is confirmed for an email that has no
// pending signup yet (the two-step save-user flow).
type PendingRegistration struct {
	Email        string     `bson:"_id"`
	Name         string     `bson:"name,omitempty"`
	PRN          string     `bson:"prn,omitempty"`
	Role         string     `bson:"role,omitempty"`
	License      string     `bson:"license,omitempty"`
	Vehicle      string     `bson:"vehicle,omitempty"`
	PasswordHash string     `bson:"password_hash,omitempty"`
	VerifiedAt   *time.Time `bson:"verified_at,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	ExpiresAt    time.Time  `bson:"expires_at"` // TTL index field
}

// HasSignup reports whether the record carries a full signup payload.
func (p *PendingRegistration) HasSignup() bool {
	return p.PasswordHash != "" && p.Name != ""
}
