// Package domain holds the value objects and readiness rules that gate calls
// into the workout API. Everything here is pure: no I/O, no clocks except the
// injectable Now hooks on the forms.
package domain

import (
	"encoding/base64"
	"strings"
	"unicode"
)

// DefaultMinPasswordSize is the shortest password the server accepts.
const DefaultMinPasswordSize = 6

// Credentials is a login attempt.
type Credentials struct {
	Login           string
	Password        string
	MinPasswordSize int
}

// NewCredentials returns credentials with the default password constraint.
func NewCredentials(login, password string) Credentials {
	return Credentials{
		Login:           login,
		Password:        password,
		MinPasswordSize: DefaultMinPasswordSize,
	}
}

// Token returns base64("login:password") for HTTP Basic auth.
// The second result is false when either part is blank after trimming.
func (c Credentials) Token() (string, bool) {
	return BasicToken(c.Login, c.Password)
}

// IsReady reports whether the credentials can be submitted.
func (c Credentials) IsReady() bool {
	return strings.TrimSpace(c.Login) != "" && TrueCount(c.Password) >= c.minPasswordSize()
}

func (c Credentials) minPasswordSize() int {
	if c.MinPasswordSize <= 0 {
		return DefaultMinPasswordSize
	}
	return c.MinPasswordSize
}

// BasicToken encodes login and password for the Authorization header.
func BasicToken(login, password string) (string, bool) {
	if strings.TrimSpace(login) == "" || strings.TrimSpace(password) == "" {
		return "", false
	}
	return base64.StdEncoding.EncodeToString([]byte(login + ":" + password)), true
}

// TrueCount counts the runes of s that are not whitespace.
func TrueCount(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
