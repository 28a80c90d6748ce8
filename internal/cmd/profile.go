package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/outfmt"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"me"},
		Short:   "Show or edit your own profile",
	}
	cmd.AddCommand(newProfileGetCmd())
	cmd.AddCommand(newProfileEditCmd())
	cmd.AddCommand(newProfileDeleteCmd())
	return cmd
}

func newProfileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			client, userID, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			user, err := client.Users().Get(ctx, userID)
			if err != nil {
				return err
			}
			return printUser(ctx, cmd, client, user)
		}),
	}
}

// printUser renders a user profile. The country list is fetched only for
// text output to show the city name.
func printUser(ctx context.Context, cmd *cobra.Command, client *api.Client, user *api.User) error {
	if isJSON(cmd) {
		return printJSON(cmd, user)
	}
	out := outfmt.GetIO(ctx).Out
	_, _ = fmt.Fprintf(out, "ID:        %d\n", user.ID)
	_, _ = fmt.Fprintf(out, "Name:      %s\n", user.Name)
	if user.FullName != "" {
		_, _ = fmt.Fprintf(out, "Full name: %s\n", user.FullName)
	}
	if user.Email != "" {
		_, _ = fmt.Fprintf(out, "Email:     %s\n", user.Email)
	}
	_, _ = fmt.Fprintf(out, "Gender:    %s\n", user.EffectiveGender())
	if t := user.BirthDateTime(); !t.IsZero() {
		_, _ = fmt.Fprintf(out, "Born:      %s\n", t.Format("2006-01-02"))
	}
	if user.CityID != nil {
		location := fmt.Sprintf("city %d", *user.CityID)
		if countries, err := client.Countries().List(ctx); err == nil {
			location = cityLabel(countries, int(*user.CityID))
		}
		_, _ = fmt.Fprintf(out, "City:      %s\n", location)
	}
	_, _ = fmt.Fprintf(out, "Friends:   %d\n", user.EffectiveFriendsCount())
	_, _ = fmt.Fprintf(out, "Parks:     %d\n", user.EffectiveParksCount())
	_, _ = fmt.Fprintf(out, "Journals:  %d\n", user.EffectiveJournalsCount())
	return nil
}

func newProfileEditCmd() *cobra.Command {
	var fields profileFlags

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit your profile",
		Long: strings.TrimSpace(`
Only the given fields change. The edit is rejected locally when nothing
changed or the result would be incomplete.
`),
		Example: "  sw profile edit --fullname \"Ivan Petrov\" --city Kazan",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			client, userID, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			user, err := client.Users().Get(ctx, userID)
			if err != nil {
				return err
			}

			saved := user.ProfileForm()
			form := saved
			if err := fields.apply(ctx, cmd, client, &form.Profile); err != nil {
				return err
			}
			if !form.IsReadyToSave(saved) {
				if form.Equal(saved) {
					return usageErrorf("nothing to change")
				}
				return usageErrorf("profile needs a user name, email, gender and a valid birth date")
			}

			updated, err := client.Users().Edit(ctx, userID, form)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, updated)
			}
			return printAction(cmd, "updated", "profile", userID)
		}),
	}

	fields.register(cmd)
	return cmd
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete your account",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        "Delete your account permanently? (y/N): ",
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			client, userID, err := getSignedInClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Users().DeleteCurrent(ctx); err != nil {
				return err
			}
			return printAction(cmd, "deleted", "user", userID)
		}),
	}
}
