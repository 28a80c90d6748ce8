// Package config keeps signed-in accounts in the OS keyring and resolves
// the settings the API client runs with.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/swparks/sw-cli/internal/domain"
)

const (
	envBaseURL  = "SW_BASE_URL"
	envLogin    = "SW_LOGIN"
	envPassword = "SW_PASSWORD"
	envUserID   = "SW_USER_ID"
	envProfile  = "SW_PROFILE"
)

// Account is a signed-in user. The password is kept because the API
// authenticates every request with Basic auth.
type Account struct {
	BaseURL  string `json:"base_url,omitempty"`
	Login    string `json:"login"`
	Password string `json:"password,omitempty"`
	UserID   int    `json:"user_id,omitempty"`
}

// Credentials returns the login pair for token derivation.
func (a Account) Credentials() domain.Credentials {
	return domain.NewCredentials(a.Login, a.Password)
}

// ErrNotConfigured is returned when no account is signed in.
var ErrNotConfigured = errors.New("not signed in - run 'sw auth login' first")

// envValue returns the trimmed value of key.
func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// envSecret returns key's value untrimmed, provided it is not blank.
func envSecret(key string) (string, bool) {
	value := os.Getenv(key)
	return value, strings.TrimSpace(value) != ""
}

// accountFromEnv reads SW_LOGIN and SW_PASSWORD. Setting only one of them
// is an error.
func accountFromEnv() (Account, bool, error) {
	login := envValue(envLogin)
	password, hasPassword := envSecret(envPassword)
	switch {
	case login == "" && !hasPassword:
		return Account{}, false, nil
	case login == "" || !hasPassword:
		return Account{}, false, fmt.Errorf("environment variables %s and %s must both be set", envLogin, envPassword)
	}

	account := Account{
		BaseURL:  strings.TrimSuffix(envValue(envBaseURL), "/"),
		Login:    login,
		Password: password,
	}
	if raw := envValue(envUserID); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return Account{}, false, fmt.Errorf("%s must be a positive integer", envUserID)
		}
		account.UserID = id
	}
	return account, true, nil
}

// ProfileFromEnv reports whether credentials come from the environment
// rather than the keyring.
func ProfileFromEnv() bool {
	return envValue(envLogin) != ""
}

// SaveProfile stores the account under profile and makes it current.
func SaveProfile(profile string, account Account) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	if err := s.putAccount(profile, account); err != nil {
		return err
	}
	return s.updateRegistry(func(r *registry) { r.Current = profileOrDefault(profile) })
}

// LoadProfile returns the account stored under profile.
func LoadProfile(profile string) (Account, error) {
	s, err := openStore()
	if err != nil {
		return Account{}, err
	}
	return s.account(profile)
}

// ClearPassword forgets the stored password of profile. The login stays so
// the next sign-in can prefill it.
func ClearPassword(profile string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	account, err := s.account(profile)
	if errors.Is(err, ErrNotConfigured) || (err == nil && account.Password == "") {
		return nil
	}
	if err != nil {
		return err
	}
	account.Password = ""
	return s.putAccount(profile, account)
}

// DeleteProfile removes profile. If it was current, another stored profile
// becomes current.
func DeleteProfile(profile string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	return s.removeAccount(profile)
}

// ListProfiles returns the stored profile names in the order they were added.
func ListProfiles() ([]string, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	r, err := s.registry()
	if err != nil {
		return nil, err
	}
	return append([]string{}, r.Names...), nil
}

// CurrentProfile returns the active profile name.
func CurrentProfile() (string, error) {
	s, err := openStore()
	if err != nil {
		return "", err
	}
	r, err := s.registry()
	if err != nil {
		return "", err
	}
	return r.active(), nil
}

// SetCurrentProfile makes profile the active one.
func SetCurrentProfile(profile string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	return s.updateRegistry(func(r *registry) { r.Current = profileOrDefault(profile) })
}
