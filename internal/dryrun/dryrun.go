// Package dryrun previews mutating requests instead of sending them.
package dryrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Field is one form parameter of a previewed request. File parts carry
// the file name and size instead of a value.
type Field struct {
	Name     string `json:"name"`
	Value    string `json:"value,omitempty"`
	Filename string `json:"filename,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// Preview describes a request that was not sent.
type Preview struct {
	Method      string  `json:"method"`
	URL         string  `json:"url"`
	ContentType string  `json:"content_type,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
	BodySize    int     `json:"body_size"`
}

// NewPreview decodes a form body into fields, in the order they were
// encoded. Password values are masked. Bodies it cannot decode are reported
// by size only.
func NewPreview(method, rawURL, contentType string, body []byte) *Preview {
	p := &Preview{Method: method, URL: rawURL, ContentType: contentType, BodySize: len(body)}
	if len(body) == 0 {
		return p
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return p
	}
	switch mediaType {
	case "application/x-www-form-urlencoded":
		p.Fields = formFields(string(body))
	case "multipart/form-data":
		p.Fields = multipartFields(body, params["boundary"])
	}
	for i := range p.Fields {
		if strings.Contains(p.Fields[i].Name, "password") && p.Fields[i].Value != "" {
			p.Fields[i].Value = "********"
		}
	}
	return p
}

func formFields(body string) []Field {
	var fields []Field
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		fields = append(fields, Field{Name: key, Value: value})
	}
	return fields
}

func multipartFields(body []byte, boundary string) []Field {
	if boundary == "" {
		return nil
	}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	var fields []Field
	for {
		part, err := reader.NextPart()
		if err != nil {
			return fields
		}
		data, _ := io.ReadAll(part)
		field := Field{Name: part.FormName()}
		if name := part.FileName(); name != "" {
			field.Filename = name
			field.Size = len(data)
		} else {
			field.Value = string(data)
		}
		fields = append(fields, field)
		_ = part.Close()
	}
}

// Write outputs the preview to the writer
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] Would %s %s\n", p.Method, p.URL)
	if p.ContentType != "" {
		_, _ = fmt.Fprintf(w, "  content-type: %s (%d bytes)\n", p.ContentType, p.BodySize)
	}
	for _, f := range p.Fields {
		if f.Filename != "" {
			_, _ = fmt.Fprintf(w, "  %s: <file %s, %d bytes>\n", f.Name, f.Filename, f.Size)
			continue
		}
		_, _ = fmt.Fprintf(w, "  %s: %s\n", f.Name, f.Value)
	}
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}

// ErrSkipped is matched by SkippedError through errors.Is.
var ErrSkipped = errors.New("dry run: request not sent")

// SkippedError is returned in place of a response when dry-run mode
// stopped a request.
type SkippedError struct {
	Preview *Preview
}

func (e *SkippedError) Error() string {
	return fmt.Sprintf("dry run: %s %s not sent", e.Preview.Method, e.Preview.URL)
}

func (e *SkippedError) Is(target error) bool {
	return target == ErrSkipped
}
