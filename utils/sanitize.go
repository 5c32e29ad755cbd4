package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips every HTML tag and returns plain text, trimmed. Entities are
// decoded again so "Tom & Jerry" is stored as typed and clients escape on render.
func Sanitize(input string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(input)))
}
