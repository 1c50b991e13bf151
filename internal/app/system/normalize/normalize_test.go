package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"student@vit.edu", "student@vit.edu"},
		{"STUDENT@VIT.EDU", "student@vit.edu"},
		{"  Student@Vit.Edu  ", "student@vit.edu"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Asha Patil", "Asha Patil"},
		{"  Asha   Patil  ", "Asha Patil"},
		{"", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRole(t *testing.T) {
	if got := Role("  Rider "); got != "rider" {
		t.Errorf("Role() = %q, want %q", got, "rider")
	}
}

func TestPlate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"MH12AB1234", "MH12AB1234"},
		{"mh12ab1234", "MH12AB1234"},
		{"MH 12 AB 1234", "MH12AB1234"},
		{"mh-12-ab-1234", "MH12AB1234"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Plate(tt.input)
			if got != tt.want {
				t.Errorf("Plate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCode(t *testing.T) {
	if got := Code(" 123 456 "); got != "123456" {
		t.Errorf("Code() = %q, want %q", got, "123456")
	}
}
