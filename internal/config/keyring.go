package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName = "sw-cli"

	envKeyringBackend  = "SW_KEYRING_BACKEND"
	envKeyringPassword = "SW_KEYRING_PASSWORD"
	envCredentialsDir  = "SW_CREDENTIALS_DIR"
)

// backend is the SW_KEYRING_BACKEND choice.
type backend string

const (
	backendAuto   backend = "auto"
	backendFile   backend = "file"
	backendSystem backend = "system"
)

var backendNames = map[string]backend{
	"auto":   backendAuto,
	"file":   backendFile,
	"system": backendSystem,
	"os":     backendSystem,
	"native": backendSystem,
}

// selectedBackend reads SW_KEYRING_BACKEND. Unknown values mean auto.
func selectedBackend() backend {
	if b, ok := backendNames[strings.ToLower(envValue(envKeyringBackend))]; ok {
		return b
	}
	return backendAuto
}

// fileOnly reports whether only the encrypted file store may be used:
// always for "file", and for "auto" on Linux without a session bus.
func (b backend) fileOnly(goos, dbusAddr string) bool {
	switch b {
	case backendFile:
		return true
	case backendAuto:
		return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
	}
	return false
}

var openKeyring = keyring.Open

// SetOpenKeyring replaces the keyring opener and returns a restore func.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	prev := openKeyring
	openKeyring = fn
	return func() { openKeyring = prev }
}

func keyringConfig() keyring.Config {
	cfg := keyring.Config{ServiceName: serviceName}
	b := selectedBackend()
	if b == backendSystem {
		return cfg
	}
	// Auto mode keeps the file store configured so keyring.Open can fall
	// back to it when no native backend is present.
	cfg.FileDir = credentialsDir()
	cfg.FilePasswordFunc = keyringFilePassword
	if b.fileOnly(runtime.GOOS, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return cfg
}

var userConfigDir = os.UserConfigDir

// credentialsDir is where the file backend keeps its encrypted items.
func credentialsDir() string {
	if dir := envValue(envCredentialsDir); dir != "" {
		return filepath.Join(dir, "keyring")
	}
	if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
		return filepath.Join(dir, serviceName, "keyring")
	}
	if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
		return filepath.Join(home, ".config", serviceName, "keyring")
	}
	return filepath.Join(os.TempDir(), serviceName, "keyring")
}

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func keyringFilePassword(prompt string) (string, error) {
	if password, ok := envSecret(envKeyringPassword); ok {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s to unlock the file keyring without a terminal", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}
