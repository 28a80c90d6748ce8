// Package validation checks user input before it is sent to the server.
package validation

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Input length limits
const (
	MaxNameLength    = 255
	MaxEmailLength   = 320 // 64 local + 1 + 255 domain
	MaxTextLength    = 100000
	MaxAddressLength = 500
)

// ValidateName checks a user name or full name. Empty is allowed.
func ValidateName(name string) error {
	if length := utf8.RuneCountInString(name); length > MaxNameLength {
		return fmt.Errorf("name exceeds maximum length of %d characters (got %d)", MaxNameLength, length)
	}
	return nil
}

// ValidateEmail checks the length and format of an email address. Empty is
// allowed; required fields are enforced by the form readiness checks.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if length := utf8.RuneCountInString(email); length > MaxEmailLength {
		return fmt.Errorf("email exceeds maximum length of %d characters (got %d)", MaxEmailLength, length)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if addr.Address != email {
		return fmt.Errorf("invalid email format: use a bare address like name@example.com")
	}
	return nil
}

// ValidateText checks the size of a comment, message or journal entry.
// Size is counted in bytes as sent.
func ValidateText(label, text string) error {
	if len(text) > MaxTextLength {
		return fmt.Errorf("%s exceeds maximum size of %d bytes (got %d)", label, MaxTextLength, len(text))
	}
	return nil
}

// ValidateAddress checks a park address length.
func ValidateAddress(address string) error {
	if length := utf8.RuneCountInString(address); length > MaxAddressLength {
		return fmt.Errorf("address exceeds maximum length of %d characters (got %d)", MaxAddressLength, length)
	}
	return nil
}

// ValidateLatitude checks a decimal latitude in [-90, 90].
func ValidateLatitude(value string) error {
	return validateCoordinate("latitude", value, 90)
}

// ValidateLongitude checks a decimal longitude in [-180, 180].
func ValidateLongitude(value string) error {
	return validateCoordinate("longitude", value, 180)
}

func validateCoordinate(label, value string, limit float64) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: must be a decimal number", label, value)
	}
	if f < -limit || f > limit {
		return fmt.Errorf("invalid %s %q: must be between %g and %g", label, value, -limit, limit)
	}
	return nil
}
