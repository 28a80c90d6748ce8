package config

import (
	"errors"
	"sync"
	"testing"

	"github.com/swparks/sw-cli/internal/domain"
)

func TestSessionAuthToken(t *testing.T) {
	s := NewEnvSession(Account{Login: "user@domain.com", Password: "p@ss!123"})
	token, ok := s.AuthToken()
	want, _ := domain.BasicToken("user@domain.com", "p@ss!123")
	if !ok || token != want {
		t.Fatalf("AuthToken() = %q, %v; want %q", token, ok, want)
	}
}

func TestSessionTriggerLogoutClearsStoredPassword(t *testing.T) {
	ring := testKeyring(t, nil)
	storeAccount(t, ring, "gym", Account{Login: "ivan", Password: "secret1"})
	withMockKeyring(t, ring)

	account, err := LoadProfile("gym")
	if err != nil {
		t.Fatalf("LoadProfile() error: %v", err)
	}
	s := NewSession("gym", account)
	s.TriggerLogout()

	if _, ok := s.AuthToken(); ok {
		t.Error("AuthToken() should be unavailable after logout")
	}
	if !s.LoggedOut() {
		t.Error("LoggedOut() should be true")
	}
	stored, err := LoadProfile("gym")
	if err != nil {
		t.Fatalf("LoadProfile() error: %v", err)
	}
	if stored.Password != "" {
		t.Error("stored password should be removed")
	}
}

func TestSessionTriggerLogoutOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	s := &Session{profile: "p", account: Account{Login: "a", Password: "secret1"}, clearStored: func(string) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return nil
	}}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.TriggerLogout()
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("clearStored called %d times, want 1", calls)
	}
}

func TestSessionTriggerLogoutClearError(t *testing.T) {
	s := &Session{profile: "p", account: Account{Login: "a", Password: "secret1"}, clearStored: func(string) error {
		return errors.New("keyring locked")
	}}
	s.TriggerLogout()
	if !s.LoggedOut() {
		t.Error("session should end even if the keyring cannot be updated")
	}
}

func TestSessionEnvLogoutSkipsKeyring(t *testing.T) {
	withFailingKeyring(t, errors.New("must not be opened"))
	s := NewEnvSession(Account{Login: "a", Password: "secret1"})
	s.TriggerLogout()
	if !s.LoggedOut() {
		t.Error("expected logged out")
	}
}

func TestNilSession(t *testing.T) {
	var s *Session
	if _, ok := s.AuthToken(); ok {
		t.Error("nil session should have no token")
	}
	s.TriggerLogout()
	if !s.LoggedOut() || s.UserID() != 0 || s.Profile() != "" {
		t.Error("nil session accessors should be zero")
	}
}
