package validation

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxMessageLength is the longest chat message accepted, in characters.
const MaxMessageLength = 5000

var stripPolicy = bluemonday.StrictPolicy()

// StripTags removes every HTML tag, decodes entities and trims whitespace.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// SanitizeMessage returns the plain text of a chat message, or an error when
// nothing is left or the text is too long.
func SanitizeMessage(text string) (string, error) {
	clean := StripTags(text)
	if clean == "" {
		return "", fmt.Errorf("message text is required")
	}
	if utf8.RuneCountInString(clean) > MaxMessageLength {
		return "", fmt.Errorf("message must not exceed %d characters", MaxMessageLength)
	}
	return clean, nil
}

// RequiredText strips tags from a free-text field and reports whether
// anything remains.
func RequiredText(field, text string, maxLen int) (string, error) {
	clean := StripTags(text)
	if clean == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	if maxLen > 0 && utf8.RuneCountInString(clean) > maxLen {
		return "", fmt.Errorf("%s must not exceed %d characters", field, maxLen)
	}
	return clean, nil
}
