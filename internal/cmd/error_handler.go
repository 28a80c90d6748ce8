package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/config"
)

// kindUsage and kindNotSignedIn extend the API error kinds for failures
// detected before a request is made.
const (
	kindUsage       api.ErrorKind = "usage"
	kindNotSignedIn api.ErrorKind = "not_signed_in"
	kindGeneric     api.ErrorKind = "error"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var apiErr *api.Error
	var usageErr *usageError

	switch {
	case errors.As(err, &usageErr):
		fmt.Fprintf(&msg, "Error: %s\n", usageErr.msg)

	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("Not signed in.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: sw auth login\n")
		msg.WriteString("  - Or set SW_LOGIN and SW_PASSWORD\n")

	case api.IsCircuitBreakerError(err):
		msg.WriteString("Service temporarily unavailable (circuit breaker open).\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - The API has had multiple failures recently\n")
		msg.WriteString("  - Wait 30 seconds and retry\n")

	case errors.As(err, &apiErr):
		msg.WriteString(apiErr.UserMessage())
		msg.WriteString("\n")
		if suggestion := apiErr.Kind.Suggestion(); suggestion != "" {
			fmt.Fprintf(&msg, "\nSuggestions:\n  - %s\n", suggestion)
		}
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", apiErr.RequestID)
		}

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

// structuredError is the JSON form of err written to stderr.
func structuredError(err error) *api.StructuredError {
	var usageErr *usageError
	var apiErr *api.Error
	switch {
	case errors.As(err, &usageErr):
		return &api.StructuredError{Kind: kindUsage, Message: usageErr.msg}
	case errors.Is(err, config.ErrNotConfigured):
		return &api.StructuredError{
			Kind:       kindNotSignedIn,
			Message:    err.Error(),
			Suggestion: api.ErrInvalidCredentials.Suggestion(),
		}
	case errors.As(err, &apiErr), api.IsCircuitBreakerError(err):
		return api.StructuredErrorFromError(err)
	default:
		return &api.StructuredError{Kind: kindGeneric, Message: err.Error()}
	}
}

// ExitWithError prints error with suggestions and exits
func ExitWithError(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprint(os.Stderr, HandleError(err))
	os.Exit(ExitCode(err))
}
