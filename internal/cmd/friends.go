package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFriendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "friends",
		Aliases: []string{"friend", "fr"},
		Short:   "Manage friends and friend requests",
	}
	cmd.AddCommand(newFriendsListCmd())
	cmd.AddCommand(newFriendsRequestsCmd())
	cmd.AddCommand(newFriendsRespondCmd("accept", "accepted", true))
	cmd.AddCommand(newFriendsRespondCmd("decline", "declined", false))
	cmd.AddCommand(newFriendsAddCmd())
	cmd.AddCommand(newFriendsRemoveCmd())
	return cmd
}

func newFriendsListCmd() *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List friends of a user (default: you)",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			client, me, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if userID == 0 {
				userID = me
			}
			friends, err := client.Friends().List(ctx, userID)
			if err != nil {
				return err
			}
			return printUsers(cmd, friends, "No friends yet")
		}),
	}

	cmd.Flags().IntVar(&userID, "user", 0, "User ID (default: signed-in user)")
	return cmd
}

func newFriendsRequestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requests",
		Short: "List incoming friend requests",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			requests, err := client.Friends().Requests(ctx)
			if err != nil {
				return err
			}
			return printUsers(cmd, requests, "No pending friend requests")
		}),
	}
}

func newFriendsRespondCmd(verb, done string, accept bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <user-id>",
		Short: fmt.Sprintf("%s a friend request", capitalize(verb)),
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
			if err := client.Friends().Respond(ctx, id, accept); err != nil {
				return err
			}
			return printAction(cmd, done, "friend request from user", id)
		}),
	}
}

func newFriendsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <user-id>",
		Short: "Send a friend request",
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
			if err := client.Friends().Add(ctx, id); err != nil {
				return err
			}
			return printAction(cmd, "sent", "friend request to user", id)
		}),
	}
}

func newFriendsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <user-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a friend",
		Args:    cobra.ExactArgs(1),
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
			if err := client.Friends().Remove(ctx, id); err != nil {
				return err
			}
			return printAction(cmd, "removed", "friend", id)
		}),
	}
}
