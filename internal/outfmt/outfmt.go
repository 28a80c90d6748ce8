// Package outfmt renders command results as tables, JSON, or JSON lines.
package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Mode selects how results are printed.
type Mode int

const (
	Text Mode = iota
	JSON
	// JSONL prints one compact JSON value per list element.
	JSONL
)

var modeNames = map[string]Mode{
	"":       Text,
	"text":   Text,
	"json":   JSON,
	"jsonl":  JSONL,
	"ndjson": JSONL,
}

// Parse maps an --output value to a Mode.
func Parse(s string) (Mode, error) {
	if mode, ok := modeNames[s]; ok {
		return mode, nil
	}
	names := make([]string, 0, len(modeNames))
	for name := range modeNames {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return Text, fmt.Errorf("invalid output format: %q (use %s)", s, strings.Join(names, ", "))
}

// Structured reports whether the mode emits JSON.
func (m Mode) Structured() bool { return m == JSON || m == JSONL }

func (m Mode) String() string {
	switch m {
	case JSON:
		return "json"
	case JSONL:
		return "jsonl"
	}
	return "text"
}

// Options is the per-invocation rendering setup built from global flags.
type Options struct {
	Mode    Mode
	Compact bool
	// Query is a jq expression applied before printing.
	Query string
	// Template is a text/template rendered against the JSON form.
	Template string
}

type optionsKey struct{}

// WithOptions stores opts in ctx.
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// OptionsFrom returns the options stored in ctx, or plain text output.
func OptionsFrom(ctx context.Context) Options {
	opts, _ := ctx.Value(optionsKey{}).(Options)
	return opts
}

// IsJSON reports whether ctx asks for JSON or JSON lines.
func IsJSON(ctx context.Context) bool {
	return OptionsFrom(ctx).Mode.Structured()
}

// WriteJSON encodes v without HTML escaping, indented unless compact.
func WriteJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
