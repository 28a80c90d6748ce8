package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// Error is a classified pipeline failure.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	// Message is the server-supplied text for ErrCustom, empty otherwise.
	Message   string
	RequestID string
	Err       error
}

func (e *Error) Error() string {
	text := e.Message
	if text == "" {
		text = e.Kind.Message()
	}
	if e.Kind == ErrCancelled {
		text = "request cancelled"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, text)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", text, e.Err)
	}
	return text
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text to show to a person: the server message for
// custom errors, the fixed text otherwise, empty for cancellation.
func (e *Error) UserMessage() string {
	if e.Kind == ErrCustom && e.Message != "" {
		return e.Message
	}
	return e.Kind.Message()
}

// CircuitBreakerError indicates the circuit breaker is open.
type CircuitBreakerError struct{}

func (e *CircuitBreakerError) Error() string {
	return "circuit breaker is open, too many recent failures"
}

// ServerErrorPayload is the error body the server sends with non-2xx codes.
type ServerErrorPayload struct {
	Errors  []string `json:"errors,omitempty"`
	Name    string   `json:"name,omitempty"`
	Message string   `json:"message,omitempty"`
	Code    int      `json:"code,omitempty"`
	Status  int      `json:"status,omitempty"`
	Type    string   `json:"type,omitempty"`
}

// RealCode is Code when set, else Status, else 0.
func (p ServerErrorPayload) RealCode() int {
	if p.Code != 0 {
		return p.Code
	}
	return p.Status
}

func decodeServerError(body []byte) (ServerErrorPayload, bool) {
	var p ServerErrorPayload
	if len(body) == 0 {
		return p, false
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return p, false
	}
	return p, true
}

// errorFromStatus builds the error for a non-2xx response. An explicit
// message wins unless the status is 401; then the joined field errors; then
// the code from the payload or the HTTP status.
func errorFromStatus(statusCode int, body []byte) *Error {
	e := &Error{StatusCode: statusCode}

	payload, ok := decodeServerError(body)
	if !ok {
		e.Kind = KindFromStatus(statusCode)
		return e
	}

	switch {
	case strings.TrimSpace(payload.Message) != "" && statusCode != 401:
		e.Kind = ErrCustom
		e.Message = payload.Message
	case len(payload.Errors) > 0:
		e.Kind = ErrCustom
		e.Message = strings.Join(payload.Errors, ", ")
	default:
		code := payload.RealCode()
		if code == 0 {
			code = statusCode
		}
		e.Kind = KindFromStatus(code)
	}
	return e
}

// errorFromTransport classifies a failure that happened before any status
// code was received.
func errorFromTransport(err error) *Error {
	switch {
	case errors.Is(err, context.Canceled):
		return &Error{Kind: ErrCancelled, Err: err}
	case isNotConnected(err):
		return &Error{Kind: ErrNotConnected, Err: err}
	default:
		return &Error{Kind: ErrNoResponse, Err: err}
	}
}

func isNotConnected(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return !dnsErr.IsTimeout
	}
	return errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETDOWN)
}

// KindOf returns the ErrorKind of err, or "" when err is not a pipeline error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsCancelled reports whether err is a user cancellation.
func IsCancelled(err error) bool {
	return KindOf(err) == ErrCancelled
}

// IsUnauthorized reports whether err is a 401.
func IsUnauthorized(err error) bool {
	return KindOf(err) == ErrInvalidCredentials
}

// IsNotFoundError reports whether err is a 404.
func IsNotFoundError(err error) bool {
	return KindOf(err) == ErrNotFound
}

// IsCircuitBreakerError checks if the error is a circuit breaker error.
func IsCircuitBreakerError(err error) bool {
	var e *CircuitBreakerError
	return errors.As(err, &e)
}

// UserMessage maps any error to the text shown to a person.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.UserMessage()
	}
	return err.Error()
}
