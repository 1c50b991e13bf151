// internal/domain/models/loginrecord.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sign-in methods recorded on a LoginRecord.
const (
	LoginMethodPassword = "password"
	LoginMethodOTP      = "otp"
)

// LoginRecord is one successful sign-in.
type LoginRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Method    string             `bson:"method"`
	IP        string             `bson:"ip,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}
