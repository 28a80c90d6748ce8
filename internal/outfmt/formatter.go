package outfmt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter prints one command's result according to the options in its
// context: a tab-aligned table in text mode, JSON otherwise.
type Formatter struct {
	opts   Options
	out    io.Writer
	errOut io.Writer
	table  *tabwriter.Writer
}

// NewFormatter creates a Formatter for the options stored in ctx.
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{
		opts:   OptionsFrom(ctx),
		out:    out,
		errOut: errOut,
		table:  tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Output writes data in the structured mode. In text mode it writes
// nothing; callers render tables themselves.
func (f *Formatter) Output(data any) error {
	switch {
	case !f.opts.Mode.Structured():
		return nil
	case f.opts.Template != "":
		filtered, err := ApplyQuery(data, f.opts.Query)
		if err != nil {
			return err
		}
		// Templates address JSON keys, not Go field names.
		generic, err := toJSONValue(filtered)
		if err != nil {
			return err
		}
		return WriteTemplate(f.out, generic, f.opts.Template)
	case f.opts.Mode == JSONL:
		return f.outputLines(data)
	}
	return WriteJSONFiltered(f.out, data, f.opts.Query, f.opts.Compact)
}

// outputLines writes one compact value per list element, running the query
// over each element separately.
func (f *Formatter) outputLines(data any) error {
	items, ok := listItems(data)
	if !ok {
		items = []any{data}
	}
	for _, item := range items {
		if f.opts.Query != "" {
			generic, err := toJSONValue(item)
			if err != nil {
				return err
			}
			if item, err = Apply(generic, f.opts.Query); err != nil {
				return err
			}
		}
		if err := WriteJSON(f.out, item, true); err != nil {
			return err
		}
	}
	return nil
}

// StartTable writes the header row. It returns false in structured modes,
// where no table is printed.
func (f *Formatter) StartTable(headers []string) bool {
	if f.opts.Mode.Structured() {
		return false
	}
	f.Row(headers...)
	return true
}

// Row writes one table row.
func (f *Formatter) Row(columns ...string) {
	_, _ = fmt.Fprintln(f.table, strings.Join(columns, "\t"))
}

// EndTable flushes the aligned table.
func (f *Formatter) EndTable() error {
	return f.table.Flush()
}

// Empty reports an empty result on stderr so stdout stays parseable.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}
