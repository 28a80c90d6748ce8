package outfmt

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"
	"time"
)

// templateFuncs extends the text/template builtins for --template.
var templateFuncs = template.FuncMap{
	// json encodes a value compactly.
	"json": func(v any) (string, error) {
		var buf bytes.Buffer
		if err := WriteJSON(&buf, v, true); err != nil {
			return "", err
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	},
	// join concatenates list elements; scalars print as they are.
	"join": func(sep string, v any) string {
		items, ok := listItems(v)
		if !ok {
			return fmt.Sprint(v)
		}
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, sep)
	},
	// date shortens an RFC3339 server timestamp to "YYYY-MM-DD HH:MM".
	"date": func(v any) string {
		s := fmt.Sprint(v)
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return s
		}
		return t.Format("2006-01-02 15:04")
	},
}

// WriteTemplate renders data with tmpl. Missing keys render as zero values.
func WriteTemplate(w io.Writer, data any, tmpl string) error {
	t, err := template.New("output").Funcs(templateFuncs).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return templateError("invalid template", err)
	}
	if err := t.Execute(w, data); err != nil {
		return templateError("template execution error", err)
	}
	return nil
}

var templatePosition = regexp.MustCompile(`:(\d+):(\d+):`)

// templateError prefixes err with kind and, when text/template reports a
// position, the line and column.
func templateError(kind string, err error) error {
	if m := templatePosition.FindStringSubmatch(err.Error()); m != nil {
		return fmt.Errorf("%s at line %s, column %s: %w", kind, m[1], m[2], err)
	}
	return fmt.Errorf("%s: %w", kind, err)
}
