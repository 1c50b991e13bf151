// internal/domain/models/user.go
package models

import (
	"time"
)

// Roles a user can register with.
const (
	RoleRider     = "rider"
	RolePassenger = "passenger"
)

// DefaultRating is shown for users that have never been rated.
const DefaultRating = 5.0

// User is a registered student. The email is the primary key.
type User struct {
	Email   string `bson:"_id" json:"email"`
	Name    string `bson:"name" json:"name"`
	NameCI  string `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	PRN     string `bson:"prn" json:"prn"`
	Role    string `bson:"role" json:"role"` // rider | passenger
	License string `bson:"license,omitempty" json:"license,omitempty"`
	Vehicle string `bson:"vehicle,omitempty" json:"vehicle,omitempty"`

	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	// LegacyPassword holds a plaintext password from records created before
	// hashing; it is replaced by PasswordHash on the next successful login.
	LegacyPassword string `bson:"password,omitempty" json:"-"`

	EmailVerified bool `bson:"email_verified" json:"emailVerified"`

	TotalRides int     `bson:"total_rides" json:"totalRides"`
	MoneySaved float64 `bson:"money_saved" json:"moneySaved"`
	Completed  int     `bson:"completed" json:"completed"`
	Rating     float64 `bson:"rating" json:"rating"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ApplyDefaults fills fields that older documents may lack.
func (u *User) ApplyDefaults() {
	if u.Rating == 0 {
		u.Rating = DefaultRating
	}
}

// IsRider reports whether the user registered as a driver.
func (u *User) IsRider() bool {
	return u.Role == RoleRider
}
