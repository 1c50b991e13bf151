package account_test

import (
	"testing"

	"github.com/dalemusser/campusride/internal/app/services/account"
)

func TestValidateRegistration_ReportsEachViolation(t *testing.T) {
	r := account.Registration{
		Name:            "Al",
		PRN:             "1234567",
		Email:           "a@vit.edu",
		Password:        "12345",
		ConfirmPassword: "54321",
		Role:            "rider",
		License:         "",
		Vehicle:         "MH12AB1234",
	}

	res := account.ValidateRegistration(r.Normalized(), "vit.edu")

	for _, field := range []string{"prn", "password", "confirmPassword", "license"} {
		if !res.Has(field) {
			t.Errorf("expected violation for %s", field)
		}
	}
	for _, field := range []string{"vehicle", "name", "email", "role"} {
		if res.Has(field) {
			t.Errorf("did not expect violation for %s", field)
		}
	}
	if len(res.Errors) != 4 {
		t.Errorf("expected 4 violations, got %d: %s", len(res.Errors), res.All())
	}
}

func validPassenger() account.Registration {
	return account.Registration{
		Name:            "Asha Patil",
		Email:           "asha@vit.edu",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		PRN:             "12345678",
		Role:            "passenger",
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*account.Registration)
		field  string // "" means valid
	}{
		{"valid passenger", func(r *account.Registration) {}, ""},
		{"valid rider", func(r *account.Registration) {
			r.Role, r.License, r.Vehicle = "rider", "LIC001", "MH12AB1234"
		}, ""},
		{"rider lowercase plate is normalized", func(r *account.Registration) {
			r.Role, r.License, r.Vehicle = "rider", "LIC001", "mh 12 ab 1234"
		}, ""},
		{"rider bad plate", func(r *account.Registration) {
			r.Role, r.License, r.Vehicle = "rider", "LIC001", "MH1AB1234"
		}, "vehicle"},
		{"passenger plate ignored", func(r *account.Registration) { r.Vehicle = "junk" }, ""},
		{"short name", func(r *account.Registration) { r.Name = " A " }, "name"},
		{"markup stripped from name", func(r *account.Registration) { r.Name = "<b></b>A" }, "name"},
		{"other domain", func(r *account.Registration) { r.Email = "asha@gmail.com" }, "email"},
		{"subdomain", func(r *account.Registration) { r.Email = "asha@mail.vit.edu" }, "email"},
		{"uppercase domain ok", func(r *account.Registration) { r.Email = "ASHA@VIT.EDU" }, ""},
		{"prn letters", func(r *account.Registration) { r.PRN = "PRN00001" }, "prn"},
		{"prn too long", func(r *account.Registration) { r.PRN = "123456789" }, "prn"},
		{"unknown role", func(r *account.Registration) { r.Role = "admin" }, "role"},
		{"mismatched confirmation", func(r *account.Registration) { r.ConfirmPassword = "secret2" }, "confirmPassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validPassenger()
			tt.modify(&r)
			res := account.ValidateRegistration(r.Normalized(), "vit.edu")

			if tt.field == "" {
				if res.HasErrors() {
					t.Errorf("expected valid, got %s", res.All())
				}
				return
			}
			if !res.Has(tt.field) {
				t.Errorf("expected violation for %s, got %v", tt.field, res.Map())
			}
		})
	}
}
