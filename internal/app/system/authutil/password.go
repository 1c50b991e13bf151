// internal/app/system/authutil/password.go
package authutil

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

// ErrPasswordTooShort is returned by ValidatePassword.
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

// ValidatePassword checks the password rules.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// PasswordRules describes the rules for display next to a password field.
func PasswordRules() string {
	return "At least 6 characters."
}

// HashPassword returns a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether pw matches the bcrypt hash.
func CheckPassword(pw, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// CheckLegacyPassword compares pw against a plaintext password left over from
// records created before hashing, in constant time.
func CheckLegacyPassword(pw, stored string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pw), []byte(stored)) == 1
}
