package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskcal/internal/store"
)

// ErrNotLoggedIn is returned when the TUI is started without an active
// session. Log in first with `taskcal login`.
var ErrNotLoggedIn = errors.New("not logged in")

func Run(dir string) error {
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return err
	}
	ctx := context.Background()
	username, err := s.LoadCurrentUser(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(username) == "" {
		return ErrNotLoggedIn
	}

	applyColorProfilePreference()
	cfg, _ := store.LoadConfig()
	applyGlyphPreference(cfg)

	m, err := newAppModel(s, username)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
