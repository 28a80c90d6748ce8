package cmd

import (
	"github.com/spf13/cobra"
)

func newBlacklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "blacklist",
		Aliases: []string{"bl"},
		Short:   "Manage blocked users",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List blocked users",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			users, err := client.Friends().Blacklist(ctx)
			if err != nil {
				return err
			}
			return printUsers(cmd, users, "Blacklist is empty")
		}),
	})
	cmd.AddCommand(newBlacklistChangeCmd("add", "Block a user", true))
	cmd.AddCommand(newBlacklistChangeCmd("remove", "Unblock a user", false))
	return cmd
}

func newBlacklistChangeCmd(use, short string, block bool) *cobra.Command {
	action := "unblocked"
	if block {
		action = "blocked"
	}
	return &cobra.Command{
		Use:   use + " <user-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "user ID")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Friends().Block(ctx, id, block); err != nil {
				return err
			}
			return printAction(cmd, action, "user", id)
		}),
	}
}
