package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/domain"
	"github.com/swparks/sw-cli/internal/outfmt"
)

func newJournalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "journals",
		Aliases: []string{"journal", "diary"},
		Short:   "Manage training journals",
		Long: strings.TrimSpace(`
Journals belong to a user. Every command works on your own journals unless
--user names another owner.
`),
	}
	cmd.AddCommand(newJournalsListCmd())
	cmd.AddCommand(newJournalsGetCmd())
	cmd.AddCommand(newJournalsCreateCmd())
	cmd.AddCommand(newJournalsSettingsCmd())
	cmd.AddCommand(newJournalsDeleteCmd())
	cmd.AddCommand(newJournalsEntriesCmd())
	cmd.AddCommand(newJournalsAddEntryCmd())
	cmd.AddCommand(newJournalsEditEntryCmd())
	cmd.AddCommand(newJournalsDeleteEntryCmd())
	return cmd
}

// journalTarget resolves the signed-in client and the journal owner.
type journalTarget struct {
	client *api.Client
	me     int
	owner  int
}

func newJournalTarget(ctx context.Context, owner int) (journalTarget, error) {
	if owner < 0 {
		return journalTarget{}, usageErrorf("invalid --user %d: must be a positive integer", owner)
	}
	client, me, err := getSignedInClient(ctx)
	if err != nil {
		return journalTarget{}, err
	}
	if owner == 0 {
		owner = me
	}
	return journalTarget{client: client, me: me, owner: owner}, nil
}

// friendsFor returns the caller's friend ids when level needs them to judge
// access to someone else's journal.
func (t journalTarget) friendsFor(ctx context.Context, j *api.Journal, level domain.AccessLevel) ([]int, error) {
	if int(j.OwnerID) == t.me || level != domain.AccessFriends {
		return nil, nil
	}
	return t.client.Friends().FriendIDs(ctx, t.me)
}

// visibleJournal fetches journal id and refuses it when its view access
// shuts the caller out.
func (t journalTarget) visibleJournal(ctx context.Context, id int) (*api.Journal, error) {
	journal, err := t.client.Journals().Get(ctx, t.owner, id)
	if err != nil {
		return nil, err
	}
	if t.owner == t.me {
		return journal, nil
	}
	level := journal.EffectiveViewAccess()
	friendIDs, err := t.friendsFor(ctx, journal, level)
	if err != nil {
		return nil, err
	}
	me := t.me
	if !journal.CanView(&me, friendIDs) {
		return nil, usageErrorf("journal %d is not visible to you (view access: %s)", id, level)
	}
	return journal, nil
}

func addOwnerFlag(cmd *cobra.Command, owner *int) {
	cmd.Flags().IntVar(owner, "user", 0, "Journal owner (defaults to you)")
}

func printJournal(cmd *cobra.Command, j *api.Journal) error {
	if isJSON(cmd) {
		return printJSON(cmd, j)
	}
	out := outfmt.GetIO(cmdContext(cmd)).Out
	_, _ = fmt.Fprintf(out, "ID:       %d\n", j.ID)
	_, _ = fmt.Fprintf(out, "Owner:    %d\n", j.OwnerID)
	_, _ = fmt.Fprintf(out, "Title:    %s\n", j.Title)
	_, _ = fmt.Fprintf(out, "Entries:  %d\n", j.EffectiveEntriesCount())
	_, _ = fmt.Fprintf(out, "View:     %s\n", j.EffectiveViewAccess())
	_, _ = fmt.Fprintf(out, "Comment:  %s\n", j.EffectiveCommentAccess())
	return nil
}

func newJournalsListCmd() *cobra.Command {
	var owner int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journals",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			t, err := newJournalTarget(ctx, owner)
			if err != nil {
				return err
			}
			journals, err := t.client.Journals().List(ctx, t.owner)
			if err != nil {
				return err
			}

			f := newFormatter(cmd)
			if isJSON(cmd) {
				return f.Output(journals)
			}
			if len(journals) == 0 {
				f.Empty("No journals")
				return nil
			}
			f.StartTable([]string{"ID", "TITLE", "ENTRIES", "VIEW", "COMMENT", "LAST ENTRY"})
			for _, j := range journals {
				f.Row(
					strconv.Itoa(int(j.ID)),
					j.Title,
					strconv.Itoa(j.EffectiveEntriesCount()),
					j.EffectiveViewAccess().String(),
					j.EffectiveCommentAccess().String(),
					truncate(j.LastMessageText, 40),
				)
			}
			return f.EndTable()
		}),
	}

	addOwnerFlag(cmd, &owner)
	return cmd
}

func newJournalsGetCmd() *cobra.Command {
	var owner int

	cmd := &cobra.Command{
		Use:   "get <journal-id>",
		Short: "Show a journal",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "journal ID")
			if err != nil {
				return err
			}
			t, err := newJournalTarget(ctx, owner)
			if err != nil {
				return err
			}
			journal, err := t.visibleJournal(ctx, id)
			if err != nil {
				return err
			}
			return printJournal(cmd, journal)
		}),
	}

	addOwnerFlag(cmd, &owner)
	return cmd
}

func newJournalsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Create a journal",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usageErrorf("title is required")
			}
			t, err := newJournalTarget(ctx, 0)
			if err != nil {
				return err
			}
			if err := t.client.Journals().Create(ctx, t.me, title); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"action": "created", "resource": "journal", "title": title})
			}
			_, _ = fmt.Fprintf(outfmt.GetIO(ctx).Out, "Created journal %q\n", title)
			return nil
		}),
	}
}

func newJournalsSettingsCmd() *cobra.Command {
	var (
		owner   int
		title   string
		view    string
		comment string
	)

	cmd := &cobra.Command{
		Use:   "settings <journal-id>",
		Short: "Change a journal's title and access levels",
		Long: "Access levels: " + strings.Join(domain.AccessLevelNames, ", ") +
			". Unset flags keep their current values.",
		Example: "  sw journals settings 7 --view friends --comment nobody",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "journal ID")
			if err != nil {
				return err
			}
			t, err := newJournalTarget(ctx, owner)
			if err != nil {
				return err
			}
			journal, err := t.client.Journals().Get(ctx, t.owner, id)
			if err != nil {
				return err
			}

			old := journal.Settings()
			settings := old
			if cmd.Flags().Changed("title") {
				settings.Title = strings.TrimSpace(title)
			}
			if cmd.Flags().Changed("view") {
				if settings.View, err = domain.ParseAccessLevel(view); err != nil {
					return usageErrorf("view: %v", err)
				}
			}
			if cmd.Flags().Changed("comment") {
				if settings.Comment, err = domain.ParseAccessLevel(comment); err != nil {
					return usageErrorf("comment: %v", err)
				}
			}
			if settings.Title == "" {
				return usageErrorf("title cannot be empty")
			}
			if settings == old {
				return usageErrorf("nothing to change")
			}
			if err := t.client.Journals().UpdateSettings(ctx, t.owner, id, settings); err != nil {
				return err
			}
			return printAction(cmd, "updated", "journal", id)
		}),
	}

	addOwnerFlag(cmd, &owner)
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&view, "view", "", "Who can read: all|friends|nobody")
	cmd.Flags().StringVar(&comment, "comment", "", "Who can add entries: all|friends|nobody")
	return cmd
}

func newJournalsDeleteCmd() *cobra.Command {
	var owner int

	cmd := &cobra.Command{
		Use:     "delete <journal-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a journal",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "journal ID")
			if err != nil {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete journal %d and all its entries? (y/N): ", id),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			t, err := newJournalTarget(ctx, owner)
			if err != nil {
				return err
			}
			if err := t.client.Journals().Delete(ctx, t.owner, id); err != nil {
				return err
			}
			return printAction(cmd, "deleted", "journal", id)
		}),
	}

	addOwnerFlag(cmd, &owner)
	return cmd
}

func newJournalsEntriesCmd() *cobra.Command {
	var owner int

	cmd := &cobra.Command{
		Use:   "entries <journal-id>",
		Short: "List the entries of a journal",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "journal ID")
			if err != nil {
				return err
			}
			t, err := newJournalTarget(ctx, owner)
			if err != nil {
				return err
			}
			if _, err := t.visibleJournal(ctx, id); err != nil {
				return err
			}
			entries, err := t.client.Journals().Entries(ctx, t.owner, id)
			if err != nil {
				return err
			}

			f := newFormatter(cmd)
			if isJSON(cmd) {
				return f.Output(entries)
			}
			if len(entries) == 0 {
				f.Empty("No entries")
				return nil
			}
			f.StartTable([]string{"ID", "TIME", "AUTHOR", "TEXT"})
			for _, e := range entries {
				author := e.Name
				if author == "" {
					author = strconv.Itoa(int(e.UserID))
				}
				f.Row(strconv.Itoa(int(e.ID)), formatTime(e.CreatedTime()), author, e.Text)
			}
			return f.EndTable()
		}),
	}

	addOwnerFlag(cmd, &owner)
	return cmd
}

func newJournalsAddEntryCmd() *cobra.Command {
	var owner int

	cmd := &cobra.Command{
		Use:   "add-entry <journal-id> <text|->",
		Short: "Add an entry to a journal",
		Long: strings.TrimSpace(`
The journal's comment access decides who may add entries: everyone, the
owner and their friends, or nobody at all (not even the owner).
`),
		Args: cobra.MinimumNArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "journal ID")
			if err != nil {
				return err
			}
			text, err := readTextArg(cmd, args[1:], "entry")
			if err != nil {
				return err
			}
			t, err := newJournalTarget(ctx, owner)
			if err != nil {
				return err
			}
			journal, err := t.client.Journals().Get(ctx, t.owner, id)
			if err != nil {
				return err
			}

			friendIDs, err := t.friendsFor(ctx, journal, journal.EffectiveCommentAccess())
			if err != nil {
				return err
			}
			me := t.me
			if !journal.CanCreateEntry(&me, friendIDs) {
				return usageErrorf("journal %d does not accept entries from you (comment access: %s)",
					id, journal.EffectiveCommentAccess())
			}

			if err := t.client.Journals().AddEntry(ctx, t.owner, id, text); err != nil {
				return err
			}
			return printAction(cmd, "added entry to", "journal", id)
		}),
	}

	addOwnerFlag(cmd, &owner)
	return cmd
}

func newJournalsEditEntryCmd() *cobra.Command {
	var owner int

	cmd := &cobra.Command{
		Use:   "edit-entry <journal-id> <entry-id> <text|->",
		Short: "Edit a journal entry",
		Args:  cobra.MinimumNArgs(3),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, entryID, err := parseTwoIDs(args, "journal ID", "entry ID")
			if err != nil {
				return err
			}
			text, err := readTextArg(cmd, args[2:], "entry")
			if err != nil {
				return err
			}
			t, err := newJournalTarget(ctx, owner)
			if err != nil {
				return err
			}
			if err := t.client.Journals().EditEntry(ctx, t.owner, id, entryID, text); err != nil {
				return err
			}
			return printAction(cmd, "updated", "entry", entryID)
		}),
	}

	addOwnerFlag(cmd, &owner)
	return cmd
}

func newJournalsDeleteEntryCmd() *cobra.Command {
	var owner int

	cmd := &cobra.Command{
		Use:   "delete-entry <journal-id> <entry-id>",
		Short: "Delete a journal entry",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, entryID, err := parseTwoIDs(args, "journal ID", "entry ID")
			if err != nil {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete entry %d? (y/N): ", entryID),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			t, err := newJournalTarget(ctx, owner)
			if err != nil {
				return err
			}
			if err := t.client.Journals().DeleteEntry(ctx, t.owner, id, entryID); err != nil {
				return err
			}
			return printAction(cmd, "deleted", "entry", entryID)
		}),
	}

	addOwnerFlag(cmd, &owner)
	return cmd
}
