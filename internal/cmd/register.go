package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swparks/sw-cli/internal/config"
	"github.com/swparks/sw-cli/internal/domain"
	"github.com/swparks/sw-cli/internal/outfmt"
)

func newRegisterCmd() *cobra.Command {
	var (
		fields        profileFlags
		passwordStdin bool
		save          bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long: strings.TrimSpace(`
Register a new user. User name, email, gender and a birth date at least
13 years ago are required. With --save the new credentials are stored in
the selected profile.
`),
		Example: strings.TrimSpace(`
  sw register --username runner --email runner@example.com --gender male \
    --birth-date 1990-04-01 --country Russia --city Moscow --password-stdin
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			client, err := getClient(ctx)
			if err != nil {
				return err
			}

			form := domain.NewRegistrationForm()
			if err := fields.apply(ctx, cmd, client, &form.Profile); err != nil {
				return err
			}
			if form.Password, err = readSecret(cmd, "Password: ", passwordStdin); err != nil {
				return err
			}
			if !form.IsReady() {
				return usageErrorf("registration needs --username, --email, --gender, a --birth-date at least %d years ago and a password of %d+ characters",
					domain.DefaultMinAge, domain.DefaultMinPasswordSize)
			}

			user, err := client.Auth().Register(ctx, form)
			if err != nil {
				return err
			}

			if save {
				account := config.Account{
					BaseURL:  flags.BaseURL,
					Login:    form.Username,
					Password: form.Password,
					UserID:   int(user.ID),
				}
				if err := config.SaveProfile(profileName(), account); err != nil {
					return fmt.Errorf("registered but saving credentials failed: %w", err)
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, user)
			}
			_, _ = fmt.Fprintf(outfmt.GetIO(ctx).Out, "Registered %s (user %d)\n", user.Name, user.ID)
			return nil
		}),
	}

	fields.register(cmd)
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().BoolVar(&save, "save", true, "Store the new credentials in the selected profile")
	return cmd
}
