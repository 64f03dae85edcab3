package store

import (
	"context"
	"strings"
)

// LoadCurrentUser returns the persisted session username, or "" when logged
// out. This is the CLI/TUI session; the web surface carries its own signed
// cookie whose subject is the same username.
func (s Store) LoadCurrentUser(ctx context.Context) (string, error) {
	var username string
	ok, err := s.getJSON(ctx, keyCurrentUser, &username)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(username), nil
}

// SaveCurrentUser persists the session username.
func (s Store) SaveCurrentUser(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if err := s.setJSON(ctx, keyCurrentUser, username); err != nil {
		return err
	}
	return s.AppendEvent(ctx, username, "session.login", username, nil)
}

// ClearCurrentUser removes the persisted session.
func (s Store) ClearCurrentUser(ctx context.Context) error {
	username, err := s.LoadCurrentUser(ctx)
	if err != nil {
		return err
	}
	if err := s.deleteKey(ctx, keyCurrentUser); err != nil {
		return err
	}
	if username == "" {
		return nil
	}
	return s.AppendEvent(ctx, username, "session.logout", username, nil)
}
