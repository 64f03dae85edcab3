package store

import (
	"context"
	"strings"

	"taskcal/internal/model"
)

// LoadUsers returns the registered users, oldest first. An empty slice (not
// an error) when nothing is persisted yet.
func (s Store) LoadUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if _, err := s.getJSON(ctx, keyUsers, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// SaveUsers overwrites the entire persisted user collection.
func (s Store) SaveUsers(ctx context.Context, users []model.User) error {
	if users == nil {
		users = []model.User{}
	}
	return s.setJSON(ctx, keyUsers, users)
}

// Register appends a new user. ErrEmptyCredential when either field trims to
// empty; ErrUsernameTaken when the username exists (exact, case-sensitive).
func (s Store) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return ErrEmptyCredential
	}

	users, err := s.LoadUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Username == username {
			return ErrUsernameTaken
		}
	}

	users = append(users, model.User{Username: username, Password: password})
	if err := s.SaveUsers(ctx, users); err != nil {
		return err
	}
	return s.AppendEvent(ctx, username, "user.register", username, nil)
}

// Authenticate scans for an exact username+password match.
func (s Store) Authenticate(ctx context.Context, username, password string) (model.User, bool, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	users, err := s.LoadUsers(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	for _, u := range users {
		if u.Username == username && u.Password == password {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}
