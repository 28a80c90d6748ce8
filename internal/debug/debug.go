// Package debug carries the debug flag through contexts and configures the
// process-wide slog logger.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey struct{}

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// LoggerOptions selects the handler for SetupLogger.
type LoggerOptions struct {
	Debug bool
	JSON  bool
	// Writer defaults to stderr.
	Writer io.Writer
}

// SetupLogger installs the default slog logger: WARN and above normally,
// DEBUG with Debug set. Authorization headers never reach the log since
// only method, url and status are logged, but values named like secrets
// are redacted anyway.
func SetupLogger(opts LoggerOptions) *slog.Logger {
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactSecrets,
	}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	switch strings.ToLower(a.Key) {
	case "password", "token", "authorization":
		return slog.String(a.Key, "[redacted]")
	}
	return a
}

// EnvEnabled reports whether SW_DEBUG asks for debug logging.
func EnvEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SW_DEBUG"))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
