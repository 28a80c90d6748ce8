package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/swparks/sw-cli/internal/config"
	"github.com/swparks/sw-cli/internal/domain"
	"github.com/swparks/sw-cli/internal/outfmt"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Sign in, sign out and manage passwords",
		Long:    "Credentials are stored per profile in the OS keychain. SW_LOGIN and SW_PASSWORD override the stored profile.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthResetPasswordCmd())
	cmd.AddCommand(newAuthChangePasswordCmd())
	cmd.AddCommand(newAuthProfilesCmd())
	cmd.AddCommand(newAuthUseCmd())
	return cmd
}

// readSecret reads a password from stdin (one line) when fromStdin is set,
// otherwise prompts without echo on a terminal.
func readSecret(cmd *cobra.Command, prompt string, fromStdin bool) (string, error) {
	ioStreams := outfmt.GetIO(cmdContext(cmd))
	if fromStdin {
		line, err := bufio.NewReader(ioStreams.In).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	if !isInteractive() {
		return "", usageErrorf("password is required: use --password-stdin when not running in a terminal")
	}
	_, _ = fmt.Fprint(ioStreams.ErrOut, prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(ioStreams.ErrOut)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(data), nil
}

func profileName() string {
	if flags.Profile != "" {
		return flags.Profile
	}
	if env := strings.TrimSpace(os.Getenv("SW_PROFILE")); env != "" {
		return env
	}
	current, err := config.CurrentProfile()
	if err != nil || current == "" {
		return "default"
	}
	return current
}

func newAuthLoginCmd() *cobra.Command {
	var (
		login         string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the credentials",
		Long: strings.TrimSpace(`
Check the login (user name or email) and password against the server and
save them to the selected profile. The previous login of the profile is
reused when --login is omitted.
`),
		Example: strings.TrimSpace(`
  # Interactive password prompt
  sw auth login --login runner@example.com

  # Non-interactive
  echo "$PASSWORD" | sw auth login --login runner --password-stdin --profile work
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			profile := profileName()

			stored, _ := config.LoadProfile(profile)
			if login == "" {
				login = stored.Login
			}
			if strings.TrimSpace(login) == "" {
				return usageErrorf("--login is required")
			}

			password, err := readSecret(cmd, "Password: ", passwordStdin)
			if err != nil {
				return err
			}
			creds := domain.NewCredentials(login, password)
			if !creds.IsReady() {
				return usageErrorf("password must have at least %d non-space characters", domain.DefaultMinPasswordSize)
			}

			client, err := getClient(ctx)
			if err != nil {
				return err
			}
			resp, err := client.Auth().Login(ctx, creds)
			if err != nil {
				return err
			}

			account := config.Account{
				BaseURL:  flags.BaseURL,
				Login:    creds.Login,
				Password: creds.Password,
				UserID:   int(resp.UserID),
			}
			if account.BaseURL == "" {
				account.BaseURL = stored.BaseURL
			}
			if err := config.SaveProfile(profile, account); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"profile": profile, "login": account.Login, "user_id": account.UserID})
			}
			out := outfmt.GetIO(ctx).Out
			_, _ = fmt.Fprintf(out, "Signed in as %s (user %d)\n", account.Login, account.UserID)
			_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
			return nil
		}),
	}

	cmd.Flags().StringVar(&login, "login", "", "User name or email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	flagAlias(cmd.Flags(), "login", "email")
	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active credentials",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ResolveClientConfig(flags.Profile, flags.BaseURL)
			if err != nil {
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			source := "keychain"
			if config.ProfileFromEnv() {
				source = "env"
			}
			payload := map[string]any{"signed_in": cfg.SignedIn()}
			if cfg.BaseURL != "" {
				payload["base_url"] = cfg.BaseURL
			}
			if cfg.SignedIn() {
				payload["login"] = cfg.Account.Login
				payload["source"] = source
				if id := cfg.Session.UserID(); id > 0 {
					payload["user_id"] = id
				}
				if p := cfg.Session.Profile(); p != "" {
					payload["profile"] = p
				}
			}
			if isJSON(cmd) {
				return printJSON(cmd, payload)
			}

			out := outfmt.GetIO(cmdContext(cmd)).Out
			if !cfg.SignedIn() {
				_, _ = fmt.Fprintln(out, "Not signed in.")
				_, _ = fmt.Fprintln(out, "Run 'sw auth login' to sign in.")
				return nil
			}
			_, _ = fmt.Fprintf(out, "Signed in as %s\n", cfg.Account.Login)
			if id := cfg.Session.UserID(); id > 0 {
				_, _ = fmt.Fprintf(out, "  User ID: %d\n", id)
			}
			if p := cfg.Session.Profile(); p != "" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", p)
			}
			if cfg.BaseURL != "" {
				_, _ = fmt.Fprintf(out, "  Base URL: %s\n", cfg.BaseURL)
			}
			_, _ = fmt.Fprintf(out, "  Source: %s\n", source)
			return nil
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credentials of a profile",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := profileName()
			if _, err := config.LoadProfile(profile); err != nil {
				_, _ = fmt.Fprintln(outfmt.GetIO(cmdContext(cmd)).Out, "No credentials found.")
				return nil
			}
			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"profile": profile, "removed": true})
			}
			_, _ = fmt.Fprintf(outfmt.GetIO(cmdContext(cmd)).Out, "Profile %s removed.\n", profile)
			return nil
		}),
	}
}

func newAuthResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <login-or-email>",
		Short: "Send a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			target := strings.TrimSpace(args[0])
			if target == "" {
				return usageErrorf("login or email is required")
			}
			client, err := getClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Auth().ResetPassword(ctx, target); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"reset_requested": true, "login": target})
			}
			_, _ = fmt.Fprintf(outfmt.GetIO(ctx).Out, "Password reset requested for %s\n", target)
			return nil
		}),
	}
}

func newAuthChangePasswordCmd() *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the password of the signed-in user",
		Long:  "With --password-stdin the current and new passwords are read from the first two lines of stdin.",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			cfg, err := config.ResolveClientConfig(flags.Profile, flags.BaseURL)
			if err != nil {
				return err
			}
			if !cfg.SignedIn() {
				return config.ErrNotConfigured
			}

			var current, next string
			if passwordStdin {
				reader := bufio.NewReader(outfmt.GetIO(ctx).In)
				current, _ = reader.ReadString('\n')
				next, _ = reader.ReadString('\n')
				current = strings.TrimRight(current, "\r\n")
				next = strings.TrimRight(next, "\r\n")
			} else {
				if current, err = readSecret(cmd, "Current password: ", false); err != nil {
					return err
				}
				if next, err = readSecret(cmd, "New password: ", false); err != nil {
					return err
				}
			}
			if !domain.NewCredentials(cfg.Account.Login, next).IsReady() {
				return usageErrorf("new password must have at least %d non-space characters", domain.DefaultMinPasswordSize)
			}

			client := newClientFactory().newClient(ctx, cfg)
			if err := client.Auth().ChangePassword(ctx, current, next); err != nil {
				return err
			}

			if profile := cfg.Session.Profile(); profile != "" {
				account := cfg.Account
				account.Password = next
				if err := config.SaveProfile(profile, account); err != nil {
					return fmt.Errorf("password changed but saving it failed: %w", err)
				}
			}
			return printAction(cmd, "changed", "password", 0)
		}),
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read current and new passwords from stdin")
	return cmd
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current := profileName()

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"current": current, "profiles": profiles})
			}
			f := newFormatter(cmd)
			if len(profiles) == 0 {
				f.Empty("No profiles stored. Run 'sw auth login' first.")
				return nil
			}
			f.StartTable([]string{"", "PROFILE"})
			for _, p := range profiles {
				marker := ""
				if p == current {
					marker = "*"
				}
				f.Row(marker, p)
			}
			return f.EndTable()
		}),
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if _, err := config.LoadProfile(name); err != nil {
				return usageErrorf("unknown profile %q: %v", name, err)
			}
			if err := config.SetCurrentProfile(name); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"current": name})
			}
			_, _ = fmt.Fprintf(outfmt.GetIO(cmdContext(cmd)).Out, "Switched to profile %q\n", name)
			return nil
		}),
	}
}
