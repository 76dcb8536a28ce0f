// Package sanitize cleans user-provided text before storage. Names, bios,
// and notes all pass through here on the way in.
package sanitize

import (
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup from a string. Entities are decoded and the
// result stripped again so encoded tags do not survive one pass.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	for entity, plain := range map[string]string{
		"&lt;":   "<",
		"&gt;":   ">",
		"&amp;":  "&",
		"&quot;": "\"",
		"&#39;":  "'",
	} {
		result = strings.ReplaceAll(result, entity, plain)
	}
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text is the standard cleanup for free-text fields.
func Text(s string) string {
	return StripHTML(s)
}

// TextPtr applies Text through an optional pointer.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}
