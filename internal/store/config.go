package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// GlobalConfig is the per-machine config file at <configDir>/config.json.
type GlobalConfig struct {
	// StoreDir overrides where state lives (default: the config dir itself).
	StoreDir string `json:"storeDir,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

// ConfigDir resolves the taskcal config directory.
// TASKCAL_CONFIG_DIR overrides it (keeps unit tests from touching ~/.taskcal).
func ConfigDir() (string, error) {
	if d := strings.TrimSpace(os.Getenv("TASKCAL_CONFIG_DIR")); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskcal"), nil
}

func configPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads config.json, returning an empty config when absent.
func LoadConfig() (*GlobalConfig, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig writes config.json, creating the config dir if needed.
func SaveConfig(cfg *GlobalConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o600)
}

// DefaultDir resolves the store directory:
//  1. TASKCAL_DIR env
//  2. storeDir from config.json
//  3. the config dir itself
func DefaultDir() (string, error) {
	if d := strings.TrimSpace(os.Getenv("TASKCAL_DIR")); d != "" {
		return d, nil
	}
	cfg, err := LoadConfig()
	if err == nil && strings.TrimSpace(cfg.StoreDir) != "" {
		return strings.TrimSpace(cfg.StoreDir), nil
	}
	return ConfigDir()
}
