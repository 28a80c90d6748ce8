package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failures the pipeline reports.
type ErrorKind string

const (
	// ErrBadRequest is HTTP 400.
	ErrBadRequest ErrorKind = "bad_request"
	// ErrInvalidCredentials is HTTP 401.
	ErrInvalidCredentials ErrorKind = "invalid_credentials"
	// ErrNotFound is HTTP 404.
	ErrNotFound ErrorKind = "not_found"
	// ErrPayloadTooLarge is HTTP 413, usually oversized photos.
	ErrPayloadTooLarge ErrorKind = "payload_too_large"
	// ErrServerError is HTTP 500.
	ErrServerError ErrorKind = "server_error"
	// ErrNoResponse covers every other status and transport failure.
	ErrNoResponse ErrorKind = "no_response"
	// ErrCustom carries a message supplied by the server.
	ErrCustom ErrorKind = "custom_error"
	// ErrDecoding means a 2xx body did not match the expected shape.
	ErrDecoding ErrorKind = "decoding_error"
	// ErrCancelled means the caller cancelled the request.
	ErrCancelled ErrorKind = "cancelled"
	// ErrNotConnected means the network is unreachable.
	ErrNotConnected ErrorKind = "not_connected_to_internet"
)

// KindFromStatus maps an HTTP status to an ErrorKind.
func KindFromStatus(statusCode int) ErrorKind {
	switch statusCode {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrInvalidCredentials
	case 404:
		return ErrNotFound
	case 413:
		return ErrPayloadTooLarge
	case 500:
		return ErrServerError
	default:
		return ErrNoResponse
	}
}

// Message is the fixed user-visible text for the kind. Cancellation has
// none.
func (k ErrorKind) Message() string {
	switch k {
	case ErrBadRequest:
		return "The request could not be processed. Check the entered data."
	case ErrInvalidCredentials:
		return "Invalid login or password."
	case ErrNotFound:
		return "The requested item was not found."
	case ErrPayloadTooLarge:
		return "The request is too large. Try attaching fewer or smaller photos."
	case ErrServerError:
		return "Server error. Try again later."
	case ErrDecoding:
		return "Unexpected response from the server."
	case ErrCancelled:
		return ""
	case ErrNotConnected:
		return "No internet connection."
	default:
		return "The server did not respond. Try again later."
	}
}

// Suggestion returns a hint for resolving the error from the CLI.
func (k ErrorKind) Suggestion() string {
	switch k {
	case ErrInvalidCredentials:
		return "Run 'sw auth login' to authenticate"
	case ErrNotFound:
		return "Verify the ID exists"
	case ErrBadRequest, ErrCustom:
		return "Check the input values"
	case ErrPayloadTooLarge:
		return "Attach fewer or smaller photos"
	case ErrServerError, ErrNoResponse:
		return "Wait a moment and retry"
	case ErrNotConnected:
		return "Check your network connection"
	default:
		return ""
	}
}

// IsRetryable returns true if errors of this kind may succeed on retry.
func (k ErrorKind) IsRetryable() bool {
	switch k {
	case ErrServerError, ErrNoResponse, ErrNotConnected:
		return true
	default:
		return false
	}
}

// StructuredError is the machine-readable form of an error for JSON output.
type StructuredError struct {
	Kind       ErrorKind      `json:"kind"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	Suggestion string         `json:"suggestion,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// MarshalJSON implements custom JSON marshaling.
func (e *StructuredError) MarshalJSON() ([]byte, error) {
	type Alias StructuredError
	return json.Marshal((*Alias)(e))
}

// StructuredErrorFromError converts any error into a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		ctx := map[string]any{}
		if apiErr.StatusCode != 0 {
			ctx["status_code"] = apiErr.StatusCode
		}
		if apiErr.RequestID != "" {
			ctx["request_id"] = apiErr.RequestID
		}
		if len(ctx) == 0 {
			ctx = nil
		}
		return &StructuredError{
			Kind:       apiErr.Kind,
			Message:    apiErr.UserMessage(),
			Retryable:  apiErr.Kind.IsRetryable(),
			Suggestion: apiErr.Kind.Suggestion(),
			Context:    ctx,
		}
	}

	var cbErr *CircuitBreakerError
	if errors.As(err, &cbErr) {
		return &StructuredError{
			Kind:       ErrNoResponse,
			Message:    cbErr.Error(),
			Retryable:  true,
			Suggestion: "Too many recent failures; wait before retrying",
		}
	}

	return &StructuredError{
		Kind:    ErrNoResponse,
		Message: err.Error(),
	}
}
