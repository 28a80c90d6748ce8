package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swparks/sw-cli/internal/outfmt"
	"github.com/swparks/sw-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

// checkForUpdate is replaced in tests.
var checkForUpdate = update.CheckForUpdate

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			var result *update.CheckResult
			if check {
				result = checkForUpdate(ctx, version)
			}

			if isJSON(cmd) {
				payload := map[string]any{"version": version}
				if result != nil {
					payload["update"] = result
				}
				return printJSON(cmd, payload)
			}

			ioStreams := outfmt.GetIO(ctx)
			_, _ = fmt.Fprintf(ioStreams.Out, "sw version %s\n", version)
			if result != nil && result.UpdateAvailable {
				_, _ = fmt.Fprintf(ioStreams.ErrOut, "\nUpdate available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
				_, _ = fmt.Fprintf(ioStreams.ErrOut, "Download: %s\n", result.UpdateURL)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}
