// Package htmlsanitize strips markup from free text that is echoed back to
// browsers, such as place names and display names.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes every tag and returns trimmed text with entities
// decoded, so "Café &amp; Bar" comes back as "Café & Bar".
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	cleaned := strict.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
