package api

import (
	"context"

	"github.com/swparks/sw-cli/internal/domain"
)

// Registration creates an account. It is sent without credentials.
type Registration struct {
	Form domain.RegistrationForm
}

func (e Registration) route() Route {
	r := post("/registration", e.Form.Params()...)
	r.NeedAuth = false
	return r
}

// Login checks the credentials carried by the session.
type Login struct{}

func (Login) route() Route {
	return post("/auth/login")
}

// ResetPassword asks the server to mail a reset link.
type ResetPassword struct {
	Login string
}

func (e ResetPassword) route() Route {
	r := post("/auth/reset", param("username_or_email", e.Login))
	r.NeedAuth = false
	return r
}

// ChangePassword replaces the signed-in user's password.
type ChangePassword struct {
	Current string
	New     string
}

func (e ChangePassword) route() Route {
	return post("/auth/changepass",
		param("password", e.Current),
		param("new_password", e.New),
	)
}

// credentialsSession authenticates a single call with credentials that are
// not stored anywhere yet.
type credentialsSession struct {
	creds domain.Credentials
}

func (s credentialsSession) AuthToken() (string, bool) {
	return s.creds.Token()
}

func (credentialsSession) TriggerLogout() {}

// Login verifies creds and returns the user id. A 401 here never logs the
// current session out.
func (s AuthService) Login(ctx context.Context, creds domain.Credentials) (*LoginResponse, error) {
	return login(ctx, s, creds)
}

func login(ctx context.Context, r Requester, creds domain.Credentials) (*LoginResponse, error) {
	var result LoginResponse
	err := r.call(ctx, Login{}, &result,
		WithSession(credentialsSession{creds: creds}),
		WithoutForceLogout(),
	)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account and returns the new user.
func (s AuthService) Register(ctx context.Context, form domain.RegistrationForm) (*User, error) {
	var result User
	if err := s.call(ctx, Registration{Form: form}, &result, WithoutForceLogout()); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResetPassword requests a password reset for a login or email.
func (s AuthService) ResetPassword(ctx context.Context, loginOrEmail string) error {
	return s.call(ctx, ResetPassword{Login: loginOrEmail}, nil, WithoutForceLogout())
}

// ChangePassword changes the password of the signed-in user.
func (s AuthService) ChangePassword(ctx context.Context, current, newPassword string) error {
	return s.call(ctx, ChangePassword{Current: current, New: newPassword}, nil)
}

