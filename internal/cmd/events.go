package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/dates"
	"github.com/swparks/sw-cli/internal/domain"
	"github.com/swparks/sw-cli/internal/outfmt"
	"github.com/swparks/sw-cli/internal/validation"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event", "e"},
		Short:   "Browse and manage training events",
	}
	cmd.AddCommand(newEventsListCmd())
	cmd.AddCommand(newEventsGetCmd())
	cmd.AddCommand(newEventsCreateCmd())
	cmd.AddCommand(newEventsEditCmd())
	cmd.AddCommand(newEventsDeleteCmd())
	cmd.AddCommand(newEventsGoingCmd("go", "Join an event", true))
	cmd.AddCommand(newEventsGoingCmd("leave", "Leave an event", false))
	cmd.AddCommand(newEventsDeletePhotoCmd())
	cmd.AddCommand(commentOps{
		resource: "event",
		add: func(ctx context.Context, c *api.Client, id int, text string) error {
			return c.Events().AddComment(ctx, id, text)
		},
		edit: func(ctx context.Context, c *api.Client, id, commentID int, text string) error {
			return c.Events().EditComment(ctx, id, commentID, text)
		},
		remove: func(ctx context.Context, c *api.Client, id, commentID int) error {
			return c.Events().DeleteComment(ctx, id, commentID)
		},
	}.commands()...)
	return cmd
}

// parseEventDate reads --date in local time.
func parseEventDate(value string) (time.Time, error) {
	t, err := dates.EventStart(value, time.Now())
	if err != nil {
		return time.Time{}, usageErrorf("--date: %v", err)
	}
	return t, nil
}

func newEventsListCmd() *cobra.Command {
	var past bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upcoming (or --past) events",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			client, err := getClient(ctx)
			if err != nil {
				return err
			}
			events, err := client.Events().List(ctx, past)
			if err != nil {
				return err
			}

			f := newFormatter(cmd)
			if isJSON(cmd) {
				return f.Output(events)
			}
			if len(events) == 0 {
				f.Empty("No events found")
				return nil
			}
			f.StartTable([]string{"ID", "DATE", "TITLE", "PARK", "GOING"})
			for _, e := range events {
				f.Row(
					strconv.Itoa(int(e.ID)),
					formatTime(e.BeginTime()),
					e.Title,
					e.ParkName,
					strconv.Itoa(e.EffectiveParticipantsCount()),
				)
			}
			return f.EndTable()
		}),
	}

	cmd.Flags().BoolVar(&past, "past", false, "List past events instead")
	return cmd
}

func newEventsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <event-id>",
		Short: "Show event details",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "event ID")
			if err != nil {
				return err
			}
			client, err := getClient(ctx)
			if err != nil {
				return err
			}
			event, err := client.Events().Get(ctx, id)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, event)
			}

			out := outfmt.GetIO(ctx).Out
			_, _ = fmt.Fprintf(out, "ID:           %d\n", event.ID)
			_, _ = fmt.Fprintf(out, "Title:        %s\n", event.Title)
			_, _ = fmt.Fprintf(out, "Date:         %s\n", formatTime(event.BeginTime()))
			_, _ = fmt.Fprintf(out, "Park:         %s (#%d)\n", event.ParkName, event.ParkID)
			if event.Address != "" {
				_, _ = fmt.Fprintf(out, "Address:      %s\n", event.Address)
			}
			if event.Author != nil {
				_, _ = fmt.Fprintf(out, "Author:       %s\n", event.Author.Name)
			}
			_, _ = fmt.Fprintf(out, "Participants: %d\n", event.EffectiveParticipantsCount())
			_, _ = fmt.Fprintf(out, "Comments:     %d\n", event.EffectiveCommentsCount())
			_, _ = fmt.Fprintf(out, "Photos:       %d\n", len(event.Photos))
			if event.EffectiveTrainHere() {
				_, _ = fmt.Fprintln(out, "You are going")
			}
			if event.Description != "" {
				_, _ = fmt.Fprintf(out, "\n%s\n", event.Description)
			}
			return nil
		}),
	}
}

type eventFlags struct {
	title       string
	description string
	date        string
	park        int
	photos      []string
}

func (e *eventFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&e.title, "title", "", "Event title")
	f.StringVar(&e.description, "description", "", "Event description (- reads stdin)")
	f.StringVar(&e.date, "date", "", "Start time in local time (YYYY-MM-DD HH:MM, tomorrow 18:00, sat 10:00)")
	f.IntVar(&e.park, "park", 0, "Park ID where the event takes place")
	f.StringArrayVar(&e.photos, "photo", nil, "Photo file to upload (repeatable)")
	flagAlias(f, "description", "desc")
}

func (e *eventFlags) apply(cmd *cobra.Command, form *domain.EventForm) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		form.Title = strings.TrimSpace(e.title)
		if err := validation.ValidateName(form.Title); err != nil {
			return usageErrorf("title: %v", err)
		}
	}
	if changed("description") {
		if e.description == "-" {
			text, err := readTextArg(cmd, []string{"-"}, "description")
			if err != nil {
				return err
			}
			form.Description = text
		} else {
			form.Description = strings.TrimSpace(e.description)
			if err := validation.ValidateText("description", form.Description); err != nil {
				return usageErrorf("%v", err)
			}
		}
	}
	if changed("date") {
		t, err := parseEventDate(e.date)
		if err != nil {
			return err
		}
		form.Date = t
	}
	if changed("park") {
		if e.park <= 0 {
			return usageErrorf("invalid --park %d: must be a positive integer", e.park)
		}
		form.ParkID = e.park
	}
	if len(e.photos) > 0 {
		photos, err := loadPhotos(e.photos)
		if err != nil {
			return err
		}
		form.Photos = photos
	}
	return nil
}

func newEventsCreateCmd() *cobra.Command {
	var fields eventFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		Long:  "Title, description and --park are required. --date defaults to now.",
		Example: strings.TrimSpace(`
  sw events create --title "Sunday pull-ups" --description "Bring chalk" \
    --park 12 --date "2024-06-02 10:00"
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			form := domain.EventForm{Date: time.Now().Truncate(time.Minute)}
			if err := fields.apply(cmd, &form); err != nil {
				return err
			}
			if !form.IsReadyToCreate() {
				return usageErrorf("a new event needs --title, --description and --park")
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			event, err := client.Events().Create(ctx, form)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, event)
			}
			return printAction(cmd, "created", "event", int(event.ID))
		}),
	}

	fields.register(cmd)
	return cmd
}

func newEventsEditCmd() *cobra.Command {
	var fields eventFlags

	cmd := &cobra.Command{
		Use:   "edit <event-id>",
		Short: "Edit an event you created",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "event ID")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			event, err := client.Events().Get(ctx, id)
			if err != nil {
				return err
			}
			old := event.Form()
			form := old
			if err := fields.apply(cmd, &form); err != nil {
				return err
			}
			if !form.IsReadyToUpdate(old) {
				if form.Equal(old) {
					return usageErrorf("nothing to change")
				}
				return usageErrorf("an event needs a title, a description and a park")
			}
			updated, err := client.Events().Update(ctx, id, form)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, updated)
			}
			return printAction(cmd, "updated", "event", id)
		}),
	}

	fields.register(cmd)
	return cmd
}

func newEventsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <event-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an event you created",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "event ID")
			if err != nil {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete event %d? (y/N): ", id),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Events().Delete(ctx, id); err != nil {
				return err
			}
			return printAction(cmd, "deleted", "event", id)
		}),
	}
}

func newEventsGoingCmd(use, short string, going bool) *cobra.Command {
	action := "left"
	if going {
		action = "joined"
	}
	return &cobra.Command{
		Use:   use + " <event-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "event ID")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Events().SetGoing(ctx, id, going); err != nil {
				return err
			}
			return printAction(cmd, action, "event", id)
		}),
	}
}

func newEventsDeletePhotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-photo <event-id> <photo-id>",
		Short: "Delete an event photo and show the renumbered photos",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, photoID, err := parseTwoIDs(args, "event ID", "photo ID")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			event, err := client.Events().Get(ctx, id)
			if err != nil {
				return err
			}
			photos, err := client.Events().DeletePhoto(ctx, event, photoID)
			if err != nil {
				return err
			}
			return printPhotos(cmd, photos)
		}),
	}
}
