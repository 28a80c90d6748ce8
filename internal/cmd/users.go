package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/outfmt"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "u"},
		Short:   "Find and show users",
	}
	cmd.AddCommand(newUsersSearchCmd())
	cmd.AddCommand(newUsersGetCmd())
	return cmd
}

// printUsers renders a user list as a table or structured output.
func printUsers(cmd *cobra.Command, users []api.User, empty string) error {
	f := newFormatter(cmd)
	if isJSON(cmd) {
		return f.Output(users)
	}
	if len(users) == 0 {
		f.Empty(empty)
		return nil
	}
	f.StartTable([]string{"ID", "NAME", "FULL NAME"})
	for _, u := range users {
		f.Row(strconv.Itoa(int(u.ID)), u.Name, u.FullName)
	}
	return f.EndTable()
}

func newUsersSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Search users by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return usageErrorf("name is required")
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			users, err := client.Users().Search(ctx, name)
			if err != nil {
				return err
			}
			return printUsers(cmd, users, fmt.Sprintf("No users found matching %q", name))
		}),
	}
}

func newUsersGetCmd() *cobra.Command {
	var concurrency int64

	cmd := &cobra.Command{
		Use:   "get <id> [id...]",
		Short: "Show one or more users",
		Long:  "Several ids are fetched concurrently; failures are reported per id.",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			ids, err := parseIDArgs(args, "user ID")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}

			if len(ids) == 1 {
				user, err := client.Users().Get(ctx, ids[0])
				if err != nil {
					return err
				}
				return printUser(ctx, cmd, client, user)
			}

			ioStreams := outfmt.GetIO(ctx)
			results := fetchEach(ctx, ids, concurrency, ioStreams.ErrOut, func(ctx context.Context, id int) (*api.User, error) {
				return client.Users().Get(ctx, id)
			})
			if err := ctx.Err(); err != nil {
				return err
			}
			_, failed := countResults(results)

			if isJSON(cmd) {
				if err := printJSON(cmd, results); err != nil {
					return err
				}
			} else {
				var users []api.User
				for _, r := range results {
					if u, ok := r.Data.(*api.User); ok && r.Success {
						users = append(users, *u)
					}
				}
				if err := printUsers(cmd, users, "No users found"); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d users could not be fetched", failed, len(results))
			}
			return nil
		}),
	}

	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Maximum parallel requests")
	return cmd
}
