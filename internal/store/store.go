// Package store persists taskcal state in a per-machine store directory.
//
// SQLite is the only source of truth. The layout deliberately mirrors the
// key-value contract of the original browser app: one `kv` table whose keys
// are `users`, `currentUser`, and `tasks_<username>`, each holding a
// JSON-serialized value. Every mutation is a whole-collection overwrite.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"taskcal/internal/model"
)

const (
	sqliteFileName   = "taskcal.sqlite"
	legacyDBFileName = "db.json"
)

const (
	keyUsers       = "users"
	keyCurrentUser = "currentUser"
	taskKeyPrefix  = "tasks_"
)

// Store is a handle on one store directory. The zero value is not usable;
// set Dir (Open and DefaultDir are the usual entry points).
type Store struct {
	Dir string
}

// Open returns a Store for dir, falling back to the resolved default when
// dir is empty.
func Open(dir string) (Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return Store{}, err
		}
		dir = d
	}
	return Store{Dir: dir}, nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) legacyDBPath() string {
	return filepath.Join(s.Dir, legacyDBFileName)
}

func taskKey(username string) string {
	return taskKeyPrefix + username
}

// legacyDB is the shape of a pre-SQLite db.json export: the kv keys and
// values of the original storage contract in a single document.
type legacyDB struct {
	Users       []model.User            `json:"users"`
	CurrentUser string                  `json:"currentUser,omitempty"`
	Tasks       map[string][]model.Task `json:"tasks,omitempty"`
}

// ImportLegacy pulls a pre-SQLite db.json into an empty store. Safe to call
// on every startup; it is a no-op once any kv rows exist.
func (s Store) ImportLegacy(ctx context.Context) error {
	return s.importLegacyIfEmpty(ctx)
}

// importLegacyIfEmpty imports db.json into the kv table once, when the
// SQLite state has no rows yet. Preserves existing data on first upgrade;
// db.json is left in place and never written again.
func (s Store) importLegacyIfEmpty(ctx context.Context) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM kv`).Scan(&n); err != nil || n > 0 {
		return err
	}

	b, err := os.ReadFile(s.legacyDBPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var legacy legacyDB
	if err := json.Unmarshal(b, &legacy); err != nil {
		return err
	}

	if len(legacy.Users) > 0 {
		if err := s.setJSON(ctx, keyUsers, legacy.Users); err != nil {
			return err
		}
	}
	if u := strings.TrimSpace(legacy.CurrentUser); u != "" {
		if err := s.setJSON(ctx, keyCurrentUser, u); err != nil {
			return err
		}
	}
	for user, tasks := range legacy.Tasks {
		if strings.TrimSpace(user) == "" {
			continue
		}
		if err := s.setJSON(ctx, taskKey(user), tasks); err != nil {
			return err
		}
	}
	return nil
}
