package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/domain"
)

// commentOps binds the comment and photo endpoints of parks or events to
// one set of commands.
type commentOps struct {
	resource string
	add      func(ctx context.Context, c *api.Client, id int, text string) error
	edit     func(ctx context.Context, c *api.Client, id, commentID int, text string) error
	remove   func(ctx context.Context, c *api.Client, id, commentID int) error
}

func (o commentOps) commands() []*cobra.Command {
	add := &cobra.Command{
		Use:   "comment <" + o.resource + "-id> <text|->",
		Short: "Comment on a " + o.resource,
		Args:  cobra.MinimumNArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], o.resource+" ID")
			if err != nil {
				return err
			}
			text, err := readTextArg(cmd, args[1:], "comment")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := o.add(ctx, client, id, text); err != nil {
				return err
			}
			return printAction(cmd, "commented on", o.resource, id)
		}),
	}

	edit := &cobra.Command{
		Use:   "edit-comment <" + o.resource + "-id> <comment-id> <text|->",
		Short: "Edit your comment",
		Args:  cobra.MinimumNArgs(3),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, commentID, err := parseTwoIDs(args, o.resource+" ID", "comment ID")
			if err != nil {
				return err
			}
			text, err := readTextArg(cmd, args[2:], "comment")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := o.edit(ctx, client, id, commentID, text); err != nil {
				return err
			}
			return printAction(cmd, "updated", "comment", commentID)
		}),
	}

	remove := &cobra.Command{
		Use:   "delete-comment <" + o.resource + "-id> <comment-id>",
		Short: "Delete your comment",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, commentID, err := parseTwoIDs(args, o.resource+" ID", "comment ID")
			if err != nil {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete comment %d? (y/N): ", commentID),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := o.remove(ctx, client, id, commentID); err != nil {
				return err
			}
			return printAction(cmd, "deleted", "comment", commentID)
		}),
	}

	return []*cobra.Command{add, edit, remove}
}

func parseTwoIDs(args []string, first, second string) (int, int, error) {
	a, err := parsePositiveIntArg(args[0], first)
	if err != nil {
		return 0, 0, err
	}
	b, err := parsePositiveIntArg(args[1], second)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// loadPhotos reads photo files into attachments numbered from 1.
func loadPhotos(paths []string) ([]domain.MediaAttachment, error) {
	photos := make([]domain.MediaAttachment, 0, len(paths))
	for i, path := range paths {
		att, err := domain.AttachmentFromFile(i+1, path)
		if err != nil {
			return nil, usageErrorf("%v", err)
		}
		photos = append(photos, att)
	}
	return photos, nil
}

// printPhotos renders the photo list left after a deletion.
func printPhotos(cmd *cobra.Command, photos []domain.Photo) error {
	f := newFormatter(cmd)
	if isJSON(cmd) {
		return f.Output(photos)
	}
	if len(photos) == 0 {
		f.Empty("No photos left")
		return nil
	}
	f.StartTable([]string{"ID", "URL"})
	for _, p := range photos {
		f.Row(strconv.Itoa(p.ID), p.URL)
	}
	return f.EndTable()
}
