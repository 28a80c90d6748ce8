package api

import (
	"context"
	"fmt"

	"github.com/swparks/sw-cli/internal/domain"
)

// GetUser fetches a profile.
type GetUser struct {
	ID int
}

func (e GetUser) route() Route {
	return get(fmt.Sprintf("/users/%d", e.ID), true)
}

// EditUser saves profile changes.
type EditUser struct {
	ID   int
	Form domain.EditProfileForm
}

func (e EditUser) route() Route {
	return post(fmt.Sprintf("/users/%d", e.ID), e.Form.Params()...)
}

// DeleteUser removes the signed-in account.
type DeleteUser struct{}

func (DeleteUser) route() Route {
	return del("/users/current")
}

// FindUsers searches users by name.
type FindUsers struct {
	Name string
}

func (e FindUsers) route() Route {
	r := get("/users/search", true)
	r.Query = []QueryItem{{Name: "name", Value: e.Name}}
	return r
}

// Get retrieves a user by ID.
func (s UsersService) Get(ctx context.Context, id int) (*User, error) {
	return getUser(ctx, s, id)
}

func getUser(ctx context.Context, r Requester, id int) (*User, error) {
	var result User
	if err := r.call(ctx, GetUser{ID: id}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Edit saves form for user id and returns the updated profile.
func (s UsersService) Edit(ctx context.Context, id int, form domain.EditProfileForm) (*User, error) {
	var result User
	if err := s.call(ctx, EditUser{ID: id, Form: form}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteCurrent deletes the signed-in account.
func (s UsersService) DeleteCurrent(ctx context.Context) error {
	return s.call(ctx, DeleteUser{}, nil)
}

// Search finds users whose name matches.
func (s UsersService) Search(ctx context.Context, name string) ([]User, error) {
	var result []User
	if err := s.call(ctx, FindUsers{Name: name}, &result); err != nil {
		return nil, err
	}
	return result, nil
}
