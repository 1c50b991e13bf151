// Package normalize cleans user-supplied identifiers before they are stored
// or used as lookup keys.
package normalize

import (
	"strings"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding space and collapses runs of inner whitespace.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Plate uppercases a vehicle registration and strips spaces and dashes, so
// "mh 12 ab-1234" becomes "MH12AB1234".
func Plate(s string) string {
	s = strings.ToUpper(s)
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '\t' {
			return -1
		}
		return r
	}, s)
}

// Code strips whitespace from a one-time code as typed by a user.
func Code(s string) string {
	return strings.Join(strings.Fields(s), "")
}
