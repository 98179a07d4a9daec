package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

// NormalizeEmail lowercases and validates an address. Display-name forms
// such as "Ann <ann@x.io>" are rejected.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("email is required")
	}
	if len(email) > 255 {
		return "", fmt.Errorf("email must not exceed 255 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", fmt.Errorf("email is invalid")
	}
	return email, nil
}
