package cmd

import (
	"os"
	"testing"

	"github.com/99designs/keyring"

	"github.com/swparks/sw-cli/internal/config"
)

func TestMain(m *testing.M) {
	// Keep a developer's SW_OUTPUT or SW_DEBUG from leaking into tests.
	_ = os.Setenv("SW_OUTPUT", "text")
	_ = os.Unsetenv("SW_DEBUG")

	cleanup := config.SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return keyring.NewArrayKeyring(nil), nil
	})
	code := m.Run()
	cleanup()
	os.Exit(code)
}
