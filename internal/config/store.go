package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/99designs/keyring"
)

const (
	defaultProfile = "default"

	registryKey      = "profiles"
	accountKeyPrefix = "account:"
)

func accountKey(profile string) string {
	return accountKeyPrefix + profileOrDefault(profile)
}

func profileOrDefault(profile string) string {
	if profile = strings.TrimSpace(profile); profile == "" {
		return defaultProfile
	}
	return profile
}

// registry is the keyring item naming the stored profiles and the active one.
type registry struct {
	Current string   `json:"current,omitempty"`
	Names   []string `json:"names"`
}

func (r *registry) add(name string) {
	if !slices.Contains(r.Names, name) {
		r.Names = append(r.Names, name)
	}
}

// drop forgets name. When it was active, the first remaining profile (or
// the default one) takes over.
func (r *registry) drop(name string) {
	r.Names = slices.DeleteFunc(r.Names, func(n string) bool { return n == name })
	if r.active() != name {
		return
	}
	r.Current = defaultProfile
	if len(r.Names) > 0 {
		r.Current = r.Names[0]
	}
}

func (r registry) active() string {
	return profileOrDefault(r.Current)
}

// store reads and writes profiles in an open keyring.
type store struct {
	ring keyring.Keyring
}

func openStore() (*store, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &store{ring: ring}, nil
}

func (s *store) account(profile string) (Account, error) {
	item, err := s.ring.Get(accountKey(profile))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return Account{}, ErrNotConfigured
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to read profile %q: %w", profile, err)
	}
	var account Account
	if err := json.Unmarshal(item.Data, &account); err != nil {
		return Account{}, fmt.Errorf("profile %q is corrupt: %w", profile, err)
	}
	if account.Login == "" {
		return Account{}, ErrNotConfigured
	}
	return account, nil
}

// putAccount writes the account and lists profile in the registry.
func (s *store) putAccount(profile string, account Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	if err := s.ring.Set(keyring.Item{Key: accountKey(profile), Data: data}); err != nil {
		return fmt.Errorf("failed to save profile %q: %w", profile, err)
	}
	return s.updateRegistry(func(r *registry) { r.add(profileOrDefault(profile)) })
}

func (s *store) removeAccount(profile string) error {
	err := s.ring.Remove(accountKey(profile))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove profile %q: %w", profile, err)
	}
	return s.updateRegistry(func(r *registry) { r.drop(profileOrDefault(profile)) })
}

func (s *store) registry() (registry, error) {
	var r registry
	item, err := s.ring.Get(registryKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return r, nil
	}
	if err != nil {
		return r, fmt.Errorf("failed to read profile list: %w", err)
	}
	if err := json.Unmarshal(item.Data, &r); err != nil {
		return r, fmt.Errorf("profile list is corrupt: %w", err)
	}
	return r, nil
}

func (s *store) updateRegistry(change func(*registry)) error {
	r, err := s.registry()
	if err != nil {
		return err
	}
	change(&r)
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := s.ring.Set(keyring.Item{Key: registryKey, Data: data}); err != nil {
		return fmt.Errorf("failed to save profile list: %w", err)
	}
	return nil
}
