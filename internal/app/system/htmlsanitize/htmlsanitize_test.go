package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/campusride/internal/app/system/htmlsanitize"
)

func TestPlainText_Empty(t *testing.T) {
	if got := htmlsanitize.PlainText(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestPlainText_Unchanged(t *testing.T) {
	input := "VIT Pune, Bibwewadi"
	if got := htmlsanitize.PlainText(input); got != input {
		t.Errorf("expected %q, got %q", input, got)
	}
}

func TestPlainText_RemovesScript(t *testing.T) {
	got := htmlsanitize.PlainText(`FC Road<script>alert('xss')</script>`)
	if strings.Contains(got, "<script>") || strings.Contains(got, "alert") {
		t.Errorf("expected script to be removed, got %q", got)
	}
	if !strings.HasPrefix(got, "FC Road") {
		t.Errorf("expected text to be kept, got %q", got)
	}
}

func TestPlainText_RemovesTags(t *testing.T) {
	got := htmlsanitize.PlainText(`<b onclick="x()">Seasons Mall</b>`)
	if got != "Seasons Mall" {
		t.Errorf("expected %q, got %q", "Seasons Mall", got)
	}
}

func TestPlainText_DecodesEntities(t *testing.T) {
	got := htmlsanitize.PlainText("Tom & Jerry's Cafe")
	if got != "Tom & Jerry's Cafe" {
		t.Errorf("expected ampersand and apostrophe preserved, got %q", got)
	}
}
