package account

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/campusride/internal/app/system/authutil"
	"github.com/dalemusser/campusride/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campusride/internal/app/system/inputval"
	"github.com/dalemusser/campusride/internal/app/system/normalize"
	"github.com/dalemusser/campusride/internal/domain/models"
)

// MinNameLength is the shortest accepted display name.
const MinNameLength = 2

// Registration is the signup form.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	PRN             string `json:"prn"`
	Role            string `json:"role"`
	License         string `json:"license"`
	Vehicle         string `json:"vehicle"`
}

// Normalized returns r with whitespace, case and markup cleaned up.
// Passwords are left untouched.
func (r Registration) Normalized() Registration {
	r.Name = normalize.Name(htmlsanitize.PlainText(r.Name))
	r.Email = normalize.Email(r.Email)
	r.PRN = strings.TrimSpace(r.PRN)
	r.Role = normalize.Role(r.Role)
	r.License = strings.TrimSpace(htmlsanitize.PlainText(r.License))
	r.Vehicle = normalize.Plate(r.Vehicle)
	return r
}

// ValidateRegistration checks r against the signup rules and returns every
// violation found. It has no side effects. r should already be normalized.
func ValidateRegistration(r Registration, institutionDomain string) inputval.Result {
	var res inputval.Result

	if utf8.RuneCountInString(r.Name) < MinNameLength {
		res.Add("name", fmt.Sprintf("Name must be at least %d characters", MinNameLength))
	}
	if !inputval.IsInstitutionEmail(r.Email, institutionDomain) || !inputval.IsValidEmail(r.Email) {
		res.Add("email", fmt.Sprintf("Please use your @%s email address", institutionDomain))
	}
	if err := authutil.ValidatePassword(r.Password); err != nil {
		res.Add("password", "Password must be at least 6 characters")
	}
	if r.Password != r.ConfirmPassword {
		res.Add("confirmPassword", "Passwords do not match")
	}
	if !inputval.IsPRN(r.PRN) {
		res.Add("prn", "PRN must be exactly 8 digits")
	}

	switch r.Role {
	case models.RoleRider:
		if r.License == "" {
			res.Add("license", "Vehicle license is required for riders")
		}
		if !inputval.IsVehiclePlate(r.Vehicle) {
			res.Add("vehicle", "Invalid vehicle number format (e.g., MH12AB1234)")
		}
	case models.RolePassenger:
	default:
		res.Add("role", "Role must be rider or passenger")
	}

	return res
}
