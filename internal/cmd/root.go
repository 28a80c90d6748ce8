package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/debug"
	"github.com/swparks/sw-cli/internal/dryrun"
	"github.com/swparks/sw-cli/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output   string
	JSON     bool
	Query    string
	Template string
	Compact  bool
	Debug    bool
	LogJSON  bool
	Timeout  time.Duration
	Profile  string
	BaseURL  string
	EnvFile  string
	NoCache  bool
	Yes      bool
	DryRun   bool
}

// flags holds the global command flags. It is reset at the start of every
// Execute call; code reading it outside a command's RunE sees stale values.
var flags = rootFlags{
	Output:  defaultOutput(),
	Timeout: api.DefaultTimeout,
}

func defaultOutput() string {
	if value := strings.TrimSpace(os.Getenv("SW_OUTPUT")); value != "" {
		return value
	}
	return "text"
}

func parseBoolEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// envFileFromArgs finds --env-file before cobra parses flags, so that values
// from the file feed env-driven flag defaults.
func envFileFromArgs(args []string) string {
	for i, a := range args {
		if a == "--" {
			return ""
		}
		if v, ok := strings.CutPrefix(a, "--env-file="); ok {
			return v
		}
		if a == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	if path := envFileFromArgs(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load --env-file %q: %w", path, err)
		}
	}

	flags = rootFlags{
		Output:  defaultOutput(),
		Timeout: api.DefaultTimeout,
		NoCache: parseBoolEnv("SW_NO_CACHE"),
		Debug:   debug.EnvEnabled(),
		DryRun:  parseBoolEnv("SW_DRY_RUN"),
	}

	root := &cobra.Command{
		Use:                "sw",
		Short:              "CLI for the street workout community: parks, events, friends, messages and journals",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if flags.JSON {
				if flagOrAliasChanged(cmd, "output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			if (flags.Query != "" || flags.Template != "") && flags.Output == "text" {
				if flagOrAliasChanged(cmd, "output") {
					return fmt.Errorf("--query/--template require --output json or jsonl (or --json)")
				}
				flags.Output = "json"
			}

			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			opts := outfmt.Options{Mode: mode, Compact: flags.Compact, Query: flags.Query}
			if flags.Template != "" {
				if opts.Template, err = loadTemplate(flags.Template); err != nil {
					return err
				}
			}
			ctx = outfmt.WithOptions(ctx, opts)

			ioStreams := outfmt.DefaultIO()
			ctx = outfmt.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			debug.SetupLogger(debug.LoggerOptions{
				Debug:  flags.Debug,
				JSON:   flags.LogJSON,
				Writer: ioStreams.ErrOut,
			})
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			if flags.Timeout < 0 {
				return fmt.Errorf("--timeout must be >= 0")
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl (env SW_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter JSON output; lists are {\"items\": [...]} and .[] addresses them directly")
	pf.StringVar(&flags.Template, "template", "", "Go template string (or @path) to render JSON output; lists are under .items")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", flags.Debug, "Enable debug logging (env SW_DEBUG)")
	pf.BoolVar(&flags.LogJSON, "log-json", false, "Write logs as JSON")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")
	pf.StringVar(&flags.Profile, "profile", "", "Credential profile to use (env SW_PROFILE)")
	pf.StringVar(&flags.BaseURL, "base-url", "", "API base URL (env SW_BASE_URL)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "Load environment variables from a .env file")
	pf.BoolVar(&flags.NoCache, "no-cache", flags.NoCache, "Bypass the response cache (env SW_NO_CACHE)")
	pf.BoolVarP(&flags.Yes, "yes", "y", false, "Skip confirmation prompts")
	pf.BoolVar(&flags.DryRun, "dry-run", flags.DryRun, "Show requests that would change server data without sending them (env SW_DRY_RUN)")

	flagAlias(pf, "output", "out")
	flagAlias(pf, "query", "jq")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "template", "tpl")
	flagAlias(pf, "debug", "dbg")
	flagAlias(pf, "timeout", "to")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newRegisterCmd())
	root.AddCommand(newProfileCmd())
	root.AddCommand(newUsersCmd())
	root.AddCommand(newFriendsCmd())
	root.AddCommand(newBlacklistCmd())
	root.AddCommand(newParksCmd())
	root.AddCommand(newEventsCmd())
	root.AddCommand(newMessagesCmd())
	root.AddCommand(newJournalsCmd())
	root.AddCommand(newCountriesCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

func loadTemplate(value string) (string, error) {
	path, ok := strings.CutPrefix(value, "@")
	if !ok {
		return value, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read --template %q: %w", path, err)
	}
	return string(data), nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			var names []string
			parent := root
			if targetCmd != nil {
				parent = targetCmd
			}
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() || c.Name() == "help" {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			seen := make(map[string]bool)
			var flagNames []string
			addFlags := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					if f.Hidden {
						return
					}
					name := "--" + f.Name
					if !seen[name] {
						seen[name] = true
						flagNames = append(flagNames, name)
					}
				})
			}
			cmd := root
			if targetCmd != nil {
				cmd = targetCmd
			}
			addFlags(cmd.Flags())
			addFlags(cmd.InheritedFlags())
			helpCmd := strings.TrimSpace(cmd.CommandPath()) + " --help"
			if suggestion := suggestFlag(unknown, flagNames); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
		}
	}

	return msg
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		return ""
	}
	rest := s[idx:]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimRight(rest, ".,;:!?\"'")
}
