package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/outfmt"
)

func newMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"message", "msg", "m"},
		Short:   "Read and send private messages",
	}
	cmd.AddCommand(newMessagesDialogsCmd())
	cmd.AddCommand(newMessagesListCmd())
	cmd.AddCommand(newMessagesSendCmd())
	cmd.AddCommand(newMessagesReadCmd())
	cmd.AddCommand(newMessagesDeleteDialogCmd())
	return cmd
}

func newMessagesDialogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dialogs",
		Aliases: []string{"inbox"},
		Short:   "List your dialogs with the unread total",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			dialogs, err := client.Messages().Dialogs(ctx)
			if err != nil {
				return err
			}

			f := newFormatter(cmd)
			if isJSON(cmd) {
				return f.Output(dialogs)
			}
			if len(dialogs) == 0 {
				f.Empty("No dialogs")
				return nil
			}
			f.StartTable([]string{"DIALOG", "USER", "NAME", "UNREAD", "LAST MESSAGE", "LAST"})
			for _, d := range dialogs {
				f.Row(
					strconv.Itoa(int(d.ID)),
					strconv.Itoa(int(d.UserID)),
					d.Name,
					strconv.Itoa(d.EffectiveUnreadCount()),
					truncate(d.LastMessageText, 40),
					formatTime(d.LastMessageTime()),
				)
			}
			if err := f.EndTable(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(outfmt.GetIO(ctx).ErrOut, "%d unread\n", api.UnreadTotal(dialogs))
			return nil
		}),
	}
}

func newMessagesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <dialog-id>",
		Short: "Show the messages of a dialog",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "dialog ID")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			messages, err := client.Messages().List(ctx, id)
			if err != nil {
				return err
			}

			f := newFormatter(cmd)
			if isJSON(cmd) {
				return f.Output(messages)
			}
			if len(messages) == 0 {
				f.Empty("No messages")
				return nil
			}
			f.StartTable([]string{"ID", "TIME", "FROM", "TEXT"})
			for _, m := range messages {
				from := m.Name
				if from == "" {
					from = strconv.Itoa(int(m.UserID))
				}
				f.Row(strconv.Itoa(int(m.ID)), formatTime(m.CreatedTime()), from, m.Text)
			}
			return f.EndTable()
		}),
	}
}

func newMessagesSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <user-id> <text|->",
		Short: "Send a message to a user",
		Example: `  sw messages send 42 "See you at the bars"
  echo "long text" | sw messages send 42 -`,
		Args: cobra.MinimumNArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			userID, err := parsePositiveIntArg(args[0], "user ID")
			if err != nil {
				return err
			}
			text, err := readTextArg(cmd, args[1:], "message")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Messages().Send(ctx, userID, text); err != nil {
				return err
			}
			return printAction(cmd, "sent message to", "user", userID)
		}),
	}
}

func newMessagesReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <user-id>",
		Short: "Mark the dialog with a user as read",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			userID, err := parsePositiveIntArg(args[0], "user ID")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Messages().MarkRead(ctx, userID); err != nil {
				return err
			}
			return printAction(cmd, "marked as read dialog with", "user", userID)
		}),
	}
}

func newMessagesDeleteDialogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-dialog <dialog-id>",
		Short: "Delete a dialog",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "dialog ID")
			if err != nil {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete dialog %d? (y/N): ", id),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Messages().DeleteDialog(ctx, id); err != nil {
				return err
			}
			return printAction(cmd, "deleted", "dialog", id)
		}),
	}
}

// truncate shortens s to n runes with a trailing ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
