package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/config"
)

const (
	exitOK        = 0
	exitGeneric   = 1
	exitUsage     = 2
	exitAuth      = 3
	exitNotFound  = 4
	exitTooLarge  = 5
	exitServer    = 7
	exitNetwork   = 8
	exitCancelled = 130
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	var usageErr *usageError
	if errors.As(err, &usageErr) {
		return exitUsage
	}
	if errors.Is(err, config.ErrNotConfigured) {
		return exitAuth
	}
	if api.IsCircuitBreakerError(err) {
		return exitServer
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return exitCodeForKind(apiErr.Kind)
	}
	if isUsageError(err) {
		return exitUsage
	}
	return exitGeneric
}

func exitCodeForKind(kind api.ErrorKind) int {
	switch kind {
	case api.ErrInvalidCredentials:
		return exitAuth
	case api.ErrNotFound:
		return exitNotFound
	case api.ErrBadRequest, api.ErrCustom:
		return exitUsage
	case api.ErrPayloadTooLarge:
		return exitTooLarge
	case api.ErrServerError, api.ErrNoResponse, api.ErrDecoding:
		return exitServer
	case api.ErrNotConnected:
		return exitNetwork
	case api.ErrCancelled:
		return exitCancelled
	default:
		return exitGeneric
	}
}

// isUsageError recognises cobra and pflag argument errors by message.
func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	indicators := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"accepts ",
		"requires at least",
		"requires exactly",
		"invalid argument",
		"required flag",
	}
	for _, indicator := range indicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
