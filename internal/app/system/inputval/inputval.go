// internal/app/system/inputval/inputval.go
package inputval

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	vehiclePlateRe = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z]{2}\d{4}$`)
	prnRe          = regexp.MustCompile(`^\d{8}$`)
	dateRe         = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe         = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// IsValidEmail reports whether s is a bare address (no display name) that
// parses as RFC 5322.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && addr.Name == ""
}

// IsInstitutionEmail reports whether s is an address at exactly the given
// domain, e.g. "someone@vit.edu" for domain "vit.edu". Subdomains do not
// match.
func IsInstitutionEmail(s, domain string) bool {
	at := strings.LastIndex(s, "@")
	if at <= 0 || domain == "" {
		return false
	}
	local := s[:at]
	if strings.ContainsAny(local, " \t\r\n@") {
		return false
	}
	return strings.EqualFold(s[at+1:], domain)
}

// IsVehiclePlate reports whether s is a registration like "MH12AB1234":
// two letters, two digits, two letters, four digits.
func IsVehiclePlate(s string) bool {
	return vehiclePlateRe.MatchString(s)
}

// IsPRN reports whether s is an 8-digit registration number.
func IsPRN(s string) bool {
	return prnRe.MatchString(s)
}

// IsDate reports whether s looks like YYYY-MM-DD.
func IsDate(s string) bool {
	return dateRe.MatchString(s)
}

// IsClockTime reports whether s looks like HH:MM (24-hour).
func IsClockTime(s string) bool {
	return timeRe.MatchString(s)
}
