package config

import (
	"log/slog"
	"sync"

	"github.com/swparks/sw-cli/internal/domain"
)

// Session is the signed-in state handed to the API client. A 401 from the
// server ends it: the in-memory password is dropped and, for keyring
// profiles, the stored one is removed too.
type Session struct {
	mu      sync.Mutex
	profile string
	account Account
	fromEnv bool
	ended   bool

	clearStored func(profile string) error
}

// NewSession wraps a keyring profile.
func NewSession(profile string, account Account) *Session {
	return &Session{profile: profile, account: account, clearStored: ClearPassword}
}

// NewEnvSession wraps credentials taken from the environment. Logout never
// touches the keyring for these.
func NewEnvSession(account Account) *Session {
	return &Session{account: account, fromEnv: true}
}

// AuthToken returns the Basic token for the current credentials.
func (s *Session) AuthToken() (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return "", false
	}
	return domain.BasicToken(s.account.Login, s.account.Password)
}

// TriggerLogout ends the session. Safe to call more than once.
func (s *Session) TriggerLogout() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.account.Password = ""
	profile, fromEnv, clear := s.profile, s.fromEnv, s.clearStored
	s.mu.Unlock()

	if fromEnv || clear == nil {
		slog.Warn("session rejected by server")
		return
	}
	if err := clear(profile); err != nil {
		slog.Warn("failed to clear stored password", "profile", profile, "error", err)
		return
	}
	slog.Warn("session rejected by server, stored password removed", "profile", profile)
}

// LoggedOut reports whether TriggerLogout has run.
func (s *Session) LoggedOut() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Profile is the keyring profile name, empty for environment credentials.
func (s *Session) Profile() string {
	if s == nil {
		return ""
	}
	return s.profile
}

// UserID is the id of the signed-in user, zero when unknown.
func (s *Session) UserID() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.UserID
}
