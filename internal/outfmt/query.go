package outfmt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"
)

// NormalizeExpression undoes shell escaping of '!' (zsh turns != into \!=).
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(expr, `\!`, `!`)
}

// Apply runs a jq expression over JSON-shaped data. A single result is
// returned as is; several results are returned as a list.
func Apply(data any, expression string) (any, error) {
	if expression == "" {
		return data, nil
	}

	expression = NormalizeExpression(expression)
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid query expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("invalid query expression: %w", err)
	}

	results, err := runQuery(code, data)
	if err != nil {
		// Lists are wrapped as {"items": [...]}; let ".[]" style queries
		// address the list directly.
		if items, ok := itemsFallback(data, expression); ok {
			if fallback, fallbackErr := runQuery(code, items); fallbackErr == nil {
				return collapse(fallback), nil
			}
		}
		return nil, err
	}
	return collapse(results), nil
}

func runQuery(code *gojq.Code, data any) ([]any, error) {
	iter := code.Run(data)
	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, fmt.Errorf("query error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func collapse(results []any) any {
	if len(results) == 1 {
		return results[0]
	}
	if results == nil {
		return []any{}
	}
	return results
}

func itemsFallback(data any, expression string) (any, bool) {
	expr := strings.TrimSpace(expression)
	if !strings.HasPrefix(expr, ".[") && !strings.HasPrefix(expr, "[.[") && !strings.HasPrefix(expr, "(.[") {
		return nil, false
	}
	m, ok := data.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, false
	}
	items, ok := m["items"].([]any)
	return items, ok
}

// toJSONValue converts typed values to the generic form gojq operates on.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyQuery normalizes v and applies query to it.
func ApplyQuery(v any, query string) (any, error) {
	v = normalizeJSONOutput(v)
	if query == "" {
		return v, nil
	}
	generic, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}
	return Apply(generic, query)
}

// WriteJSONFiltered writes v as JSON after applying the optional query.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	result, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	return WriteJSON(w, result, compact)
}
