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
	"github.com/swparks/sw-cli/internal/resolve"
	"github.com/swparks/sw-cli/internal/validation"
)

func newParksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "parks",
		Aliases: []string{"park", "p"},
		Short:   "Browse and manage workout parks",
	}
	cmd.AddCommand(newParksListCmd())
	cmd.AddCommand(newParksGetCmd())
	cmd.AddCommand(newParksCreateCmd())
	cmd.AddCommand(newParksEditCmd())
	cmd.AddCommand(newParksDeleteCmd())
	cmd.AddCommand(newParksTrainCmd("train", "Mark that you train at a park", true))
	cmd.AddCommand(newParksTrainCmd("untrain", "Stop training at a park", false))
	cmd.AddCommand(newParksDeletePhotoCmd())
	cmd.AddCommand(commentOps{
		resource: "park",
		add: func(ctx context.Context, c *api.Client, id int, text string) error {
			return c.Parks().AddComment(ctx, id, text)
		},
		edit: func(ctx context.Context, c *api.Client, id, commentID int, text string) error {
			return c.Parks().EditComment(ctx, id, commentID, text)
		},
		remove: func(ctx context.Context, c *api.Client, id, commentID int) error {
			return c.Parks().DeleteComment(ctx, id, commentID)
		},
	}.commands()...)
	return cmd
}

func printParks(cmd *cobra.Command, parks []api.Park) error {
	f := newFormatter(cmd)
	if isJSON(cmd) {
		return f.Output(parks)
	}
	if len(parks) == 0 {
		f.Empty("No parks found")
		return nil
	}
	f.StartTable([]string{"ID", "TYPE", "SIZE", "CITY", "ADDRESS"})
	for _, p := range parks {
		f.Row(
			strconv.Itoa(int(p.ID)),
			resolve.ParkTypes.Name(int(p.TypeID)),
			resolve.ParkSizes.Name(int(p.SizeID)),
			strconv.Itoa(int(p.CityID)),
			p.Address,
		)
	}
	return f.EndTable()
}

func newParksListCmd() *cobra.Command {
	var (
		userID   int
		since    string
		city     string
		parkType string
		size     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List parks",
		Long: strings.TrimSpace(`
List all parks, the parks a user trains at (--user) or parks changed since
a date (--since). --city, --type and --size filter the result locally.
`),
		Example: strings.TrimSpace(`
  sw parks list --city Moscow --type modern
  sw parks list --since 2024-05-01 --json
  sw parks list --since 2w
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			if userID != 0 && since != "" {
				return usageErrorf("--user and --since cannot be used together")
			}
			client, err := getClient(ctx)
			if err != nil {
				return err
			}

			var parks []api.Park
			switch {
			case userID != 0:
				parks, err = client.Parks().ForUser(ctx, userID)
			case since != "":
				t, perr := dates.Since(since, time.Now().UTC())
				if perr != nil {
					return usageErrorf("--since: %v", perr)
				}
				parks, err = client.Parks().UpdatedSince(ctx, t)
			default:
				parks, err = client.Parks().List(ctx)
			}
			if err != nil {
				return err
			}

			filter := parkFilter{}
			if city != "" {
				if _, filter.cityID, err = resolveLocation(ctx, client, "", city, 0); err != nil {
					return err
				}
			}
			if parkType != "" {
				if filter.typeID, err = resolve.ParkTypes.Lookup(parkType); err != nil {
					return usageErrorf("type: %v", err)
				}
			}
			if size != "" {
				if filter.sizeID, err = resolve.ParkSizes.Lookup(size); err != nil {
					return usageErrorf("size: %v", err)
				}
			}
			return printParks(cmd, filter.apply(parks))
		}),
	}

	cmd.Flags().IntVar(&userID, "user", 0, "Parks where this user trains")
	cmd.Flags().StringVar(&since, "since", "", "Only parks changed since this UTC date (YYYY-MM-DD, 7d, yesterday)")
	cmd.Flags().StringVar(&city, "city", "", "Filter by city name or id")
	cmd.Flags().StringVar(&parkType, "type", "", "Filter by type: soviet|modern|collars|legendary")
	cmd.Flags().StringVar(&size, "size", "", "Filter by size: small|medium|large")
	return cmd
}

type parkFilter struct {
	cityID int
	typeID int
	sizeID int
}

func (f parkFilter) apply(parks []api.Park) []api.Park {
	if f == (parkFilter{}) {
		return parks
	}
	out := make([]api.Park, 0, len(parks))
	for _, p := range parks {
		if f.cityID != 0 && int(p.CityID) != f.cityID {
			continue
		}
		if f.typeID != 0 && int(p.TypeID) != f.typeID {
			continue
		}
		if f.sizeID != 0 && int(p.SizeID) != f.sizeID {
			continue
		}
		out = append(out, p)
	}
	return out
}

func newParksGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <park-id>",
		Short: "Show park details",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "park ID")
			if err != nil {
				return err
			}
			client, err := getClient(ctx)
			if err != nil {
				return err
			}
			park, err := client.Parks().Get(ctx, id)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, park)
			}

			out := outfmt.GetIO(ctx).Out
			_, _ = fmt.Fprintf(out, "ID:        %d\n", park.ID)
			if park.Name != "" {
				_, _ = fmt.Fprintf(out, "Name:      %s\n", park.Name)
			}
			_, _ = fmt.Fprintf(out, "Address:   %s\n", park.Address)
			_, _ = fmt.Fprintf(out, "Location:  %s, %s\n", park.Latitude, park.Longitude)
			_, _ = fmt.Fprintf(out, "Type:      %s\n", resolve.ParkTypes.Name(int(park.TypeID)))
			_, _ = fmt.Fprintf(out, "Size:      %s\n", resolve.ParkSizes.Name(int(park.SizeID)))
			if park.AuthorName != "" {
				_, _ = fmt.Fprintf(out, "Author:    %s\n", park.AuthorName)
			}
			_, _ = fmt.Fprintf(out, "Trainees:  %d\n", park.EffectiveTrainingUsersCount())
			_, _ = fmt.Fprintf(out, "Comments:  %d\n", park.EffectiveCommentsCount())
			_, _ = fmt.Fprintf(out, "Photos:    %d\n", len(park.Photos))
			if park.EffectiveTrainHere() {
				_, _ = fmt.Fprintln(out, "You train here")
			}
			return nil
		}),
	}
}

// parkFlags are the editable park fields.
type parkFlags struct {
	address   string
	latitude  string
	longitude string
	city      string
	parkType  string
	size      string
	photos    []string
}

func (p *parkFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&p.address, "address", "", "Street address")
	f.StringVar(&p.latitude, "latitude", "", "Latitude (e.g. 55.7558)")
	f.StringVar(&p.longitude, "longitude", "", "Longitude (e.g. 37.6173)")
	f.StringVar(&p.city, "city", "", "City name or id")
	f.StringVar(&p.parkType, "type", "", "Type: soviet|modern|collars|legendary")
	f.StringVar(&p.size, "size", "", "Size: small|medium|large")
	f.StringArrayVar(&p.photos, "photo", nil, "Photo file to upload (repeatable)")
	flagAlias(f, "latitude", "lat")
	flagAlias(f, "longitude", "lon")
}

func (p *parkFlags) apply(ctx context.Context, cmd *cobra.Command, client *api.Client, form *domain.ParkForm) error {
	changed := cmd.Flags().Changed
	if changed("address") {
		form.Address = strings.TrimSpace(p.address)
		if err := validation.ValidateAddress(form.Address); err != nil {
			return usageErrorf("%v", err)
		}
	}
	if changed("latitude") {
		form.Latitude = strings.TrimSpace(p.latitude)
		if err := validation.ValidateLatitude(form.Latitude); err != nil {
			return usageErrorf("%v", err)
		}
	}
	if changed("longitude") {
		form.Longitude = strings.TrimSpace(p.longitude)
		if err := validation.ValidateLongitude(form.Longitude); err != nil {
			return usageErrorf("%v", err)
		}
	}
	if changed("city") {
		_, cityID, err := resolveLocation(ctx, client, "", p.city, 0)
		if err != nil {
			return err
		}
		form.CityID = cityID
	}
	if changed("type") {
		id, err := resolve.ParkTypes.Lookup(p.parkType)
		if err != nil {
			return usageErrorf("type: %v", err)
		}
		form.TypeID = id
	}
	if changed("size") {
		id, err := resolve.ParkSizes.Lookup(p.size)
		if err != nil {
			return usageErrorf("size: %v", err)
		}
		form.SizeID = id
	}
	if len(p.photos) > 0 {
		photos, err := loadPhotos(p.photos)
		if err != nil {
			return err
		}
		form.Photos = photos
	}
	return nil
}

func newParksCreateCmd() *cobra.Command {
	var fields parkFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a new park",
		Long:  "Address, coordinates, city and at least one --photo are required.",
		Example: strings.TrimSpace(`
  sw parks create --address "Gorky park" --lat 55.7298 --lon 37.6011 \
    --city Moscow --type modern --size large --photo bars.jpg
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			form := domain.ParkForm{TypeID: api.ParkTypeModern, SizeID: api.ParkSizeSmall}
			if err := fields.apply(ctx, cmd, client, &form); err != nil {
				return err
			}
			if !form.IsReadyToCreate() {
				return usageErrorf("a new park needs --address, --latitude, --longitude, --city and at least one --photo")
			}
			park, err := client.Parks().Create(ctx, form)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, park)
			}
			return printAction(cmd, "created", "park", int(park.ID))
		}),
	}

	fields.register(cmd)
	return cmd
}

func newParksEditCmd() *cobra.Command {
	var fields parkFlags

	cmd := &cobra.Command{
		Use:   "edit <park-id>",
		Short: "Edit a park you added",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "park ID")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			park, err := client.Parks().Get(ctx, id)
			if err != nil {
				return err
			}
			old := park.Form()
			form := old
			if err := fields.apply(ctx, cmd, client, &form); err != nil {
				return err
			}
			if !form.IsReadyToUpdate(old) {
				if form.Equal(old) {
					return usageErrorf("nothing to change")
				}
				return usageErrorf("a park needs an address, coordinates, a city and at least one photo")
			}
			updated, err := client.Parks().Update(ctx, id, form)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, updated)
			}
			return printAction(cmd, "updated", "park", id)
		}),
	}

	fields.register(cmd)
	return cmd
}

func newParksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <park-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a park you added",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "park ID")
			if err != nil {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete park %d? (y/N): ", id),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Parks().Delete(ctx, id); err != nil {
				return err
			}
			return printAction(cmd, "deleted", "park", id)
		}),
	}
}

func newParksTrainCmd(use, short string, train bool) *cobra.Command {
	action := "stopped training at"
	if train {
		action = "training at"
	}
	return &cobra.Command{
		Use:   use + " <park-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, err := parsePositiveIntArg(args[0], "park ID")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Parks().SetTrainHere(ctx, id, train); err != nil {
				return err
			}
			return printAction(cmd, action, "park", id)
		}),
	}
}

func newParksDeletePhotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-photo <park-id> <photo-id>",
		Short: "Delete a park photo and show the renumbered photos",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			id, photoID, err := parseTwoIDs(args, "park ID", "photo ID")
			if err != nil {
				return err
			}
			client, _, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			park, err := client.Parks().Get(ctx, id)
			if err != nil {
				return err
			}
			photos, err := client.Parks().DeletePhoto(ctx, park, photoID)
			if err != nil {
				return err
			}
			return printPhotos(cmd, photos)
		}),
	}
}
