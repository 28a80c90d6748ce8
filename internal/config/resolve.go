package config

import (
	"errors"
	"os"
	"strings"
)

const (
	envBoundary = "SW_BOUNDARY"
	envRedisURL = "SW_REDIS_URL"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	BaseURL  string
	Boundary string
	RedisURL string
	Session  *Session
	Account  Account
}

// SignedIn reports whether credentials were found.
func (c ClientConfig) SignedIn() bool {
	return c.Session != nil
}

// ResolveClientConfig resolves client settings. Credentials are optional:
// anonymous endpoints work without them, so ErrNotConfigured is swallowed.
// Precedence for the base URL is override, SW_BASE_URL, then the profile.
func ResolveClientConfig(profile, baseURLOverride string) (ClientConfig, error) {
	var cfg ClientConfig

	account, name, err := resolveAccount(profile)
	switch {
	case err == nil:
		cfg.Account = account
		cfg.BaseURL = account.BaseURL
		if name == "" {
			cfg.Session = NewEnvSession(account)
		} else {
			cfg.Session = NewSession(name, account)
		}
	case errors.Is(err, ErrNotConfigured):
	default:
		return ClientConfig{}, err
	}

	if envURL := strings.TrimSpace(os.Getenv(envBaseURL)); envURL != "" {
		cfg.BaseURL = strings.TrimSuffix(envURL, "/")
	}
	if baseURLOverride != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURLOverride, "/")
	}
	cfg.Boundary = strings.TrimSpace(os.Getenv(envBoundary))
	cfg.RedisURL = strings.TrimSpace(os.Getenv(envRedisURL))
	return cfg, nil
}

// resolveAccount returns the account and its profile name. The name is empty
// for environment credentials. An account without a password is treated as
// signed out.
func resolveAccount(profile string) (Account, string, error) {
	if account, ok, err := accountFromEnv(); ok || err != nil {
		return account, "", err
	}

	name := strings.TrimSpace(profile)
	if name == "" {
		name = strings.TrimSpace(os.Getenv(envProfile))
	}
	if name == "" {
		current, err := CurrentProfile()
		if err != nil {
			return Account{}, "", err
		}
		name = current
	}

	account, err := LoadProfile(name)
	if err != nil {
		return Account{}, "", err
	}
	if account.Password == "" {
		return Account{}, "", ErrNotConfigured
	}
	return account, name, nil
}
