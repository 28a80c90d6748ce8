package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/dryrun"
	"github.com/swparks/sw-cli/internal/outfmt"
	"github.com/swparks/sw-cli/internal/urlparse"
	"github.com/swparks/sw-cli/internal/validation"
)

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmdContext(cmd))
}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	ctx := cmdContext(cmd)
	ioStreams := outfmt.GetIO(ctx)
	return outfmt.NewFormatter(ctx, ioStreams.Out, ioStreams.ErrOut)
}

// printJSON outputs data in the structured mode with query/template filtering
func printJSON(cmd *cobra.Command, v any) error {
	return newFormatter(cmd).Output(v)
}

// printAction reports a completed mutation. JSON mode gets a small object
// so scripts can check the outcome.
func printAction(cmd *cobra.Command, action, resource string, id int) error {
	if isJSON(cmd) {
		return printJSON(cmd, map[string]any{"action": action, "resource": resource, "id": id})
	}
	out := outfmt.GetIO(cmdContext(cmd)).Out
	if id == 0 {
		_, _ = fmt.Fprintf(out, "%s %s\n", capitalize(action), resource)
		return nil
	}
	_, _ = fmt.Fprintf(out, "%s %s %d\n", capitalize(action), resource, id)
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// usageError marks input problems found before any request is sent.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// parsePositiveIntArg parses an id given on the command line. A link to
// the resource's page is accepted too; the first word of label names the
// kind it must point at.
func parsePositiveIntArg(input, label string) (int, error) {
	if urlparse.LooksLikeURL(input) {
		kind, _, _ := strings.Cut(label, " ")
		id, err := urlparse.ID(input, kind)
		if err != nil {
			return 0, usageErrorf("invalid %s: %v", label, err)
		}
		return id, nil
	}
	input = strings.TrimPrefix(strings.TrimSpace(input), "#")
	id, err := strconv.Atoi(input)
	if err != nil || id <= 0 {
		return 0, usageErrorf("invalid %s %q: must be a positive integer", label, input)
	}
	return id, nil
}

// parseIDArgs parses each arg, also splitting comma lists ("1,2 3").
func parseIDArgs(args []string, label string) ([]int, error) {
	var ids []int
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parsePositiveIntArg(part, label)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, usageErrorf("at least one %s is required", label)
	}
	return ids, nil
}

// readTextArg joins args into a message body; "-" reads stdin.
func readTextArg(cmd *cobra.Command, args []string, label string) (string, error) {
	text := strings.Join(args, " ")
	if text == "-" {
		data, err := io.ReadAll(outfmt.GetIO(cmdContext(cmd)).In)
		if err != nil {
			return "", fmt.Errorf("failed to read %s from stdin: %w", label, err)
		}
		text = string(data)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", usageErrorf("%s is required", label)
	}
	if err := validation.ValidateText(label, text); err != nil {
		return "", usageErrorf("%v", err)
	}
	return text, nil
}

// formatTime renders server times for tables; "-" when unknown.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func parseBirthDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, usageErrorf("invalid birth date %q: use YYYY-MM-DD", value)
	}
	return t, nil
}

// aliasBridgeValue wraps a pflag.Value so that Set() on the alias also
// marks the canonical flag as Changed.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// flagAlias registers a hidden alias sharing the Value of an existing flag.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	a.Value = &aliasBridgeValue{Value: f.Value, canonical: f}
	a.Annotations = map[string][]string{"alias-of": {name}}
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
		return true
	}
	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name && fs.Changed(f.Name) {
				found = true
			}
		})
		return found
	}
	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

func isInteractive() bool {
	if flags.Yes {
		return false
	}
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

type confirmOptions struct {
	Prompt        string
	CancelMessage string
	Force         bool
}

// confirmAction asks for "y" on the input stream. --yes, --dry-run and
// Force skip the prompt; JSON output requires one of them.
func confirmAction(cmd *cobra.Command, opts confirmOptions) (bool, error) {
	if flags.Yes || flags.DryRun || opts.Force {
		return true, nil
	}
	if isJSON(cmd) {
		return false, usageErrorf("--yes is required when using --output json")
	}

	ioStreams := outfmt.GetIO(cmdContext(cmd))
	if opts.Prompt != "" {
		_, _ = fmt.Fprint(ioStreams.ErrOut, opts.Prompt)
	}
	response, err := bufio.NewReader(ioStreams.In).ReadString('\n')
	if err != nil && response == "" {
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(ioStreams.ErrOut, opts.CancelMessage)
		}
		return false, nil
	}
	if strings.TrimSpace(strings.ToLower(response)) != "y" {
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(ioStreams.ErrOut, opts.CancelMessage)
		}
		return false, nil
	}
	return true, nil
}

// errAlreadyHandled signals that the error was already printed to stderr.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with error reporting. Cancellation prints
// nothing; a request stopped by --dry-run prints its preview and succeeds.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		ioStreams := outfmt.GetIO(cmdContext(cmd))
		var skipped *dryrun.SkippedError
		if errors.As(err, &skipped) {
			if isJSON(cmd) {
				return printJSON(cmd, skipped.Preview)
			}
			skipped.Preview.Write(ioStreams.Out)
			return nil
		}
		switch {
		case api.IsCancelled(err):
		case isJSON(cmd):
			_ = outfmt.WriteJSON(ioStreams.ErrOut, structuredError(err), outfmt.OptionsFrom(cmdContext(cmd)).Compact)
		default:
			_, _ = fmt.Fprint(ioStreams.ErrOut, HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}
