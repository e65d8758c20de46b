// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Storage modes.
const (
	ModeLocal  = "local"  // sqlite file
	ModeCloud  = "cloud"  // firestore
	ModeMemory = "memory" // ephemeral, for trials and tests
)

// Config holds the application configuration.
type Config struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Storage   StorageConfig   `toml:"storage"`
	UI        UIConfig        `toml:"ui"`
}

// WorkspaceConfig holds workspace-level settings.
type WorkspaceConfig struct {
	LocalConfigPath string `toml:"local_config_path"` // roster/program blob location
}

// StorageConfig selects and configures the task store backend.
type StorageConfig struct {
	Mode string `toml:"mode"` // "local", "cloud", or "memory"

	// Local mode.
	DBPath string `toml:"db_path"`

	// Cloud mode.
	FirestoreProject     string `toml:"firestore_project"`
	FirestoreCredentials string `toml:"firestore_credentials"` // service account key file
	FirestoreCollection  string `toml:"firestore_collection"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme       string `toml:"theme"`        // "mocha", "macchiato", "frappe", "latte"
	DefaultView string `toml:"default_view"` // "editor" or "show" lane grouping
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			LocalConfigPath: defaultLocalConfigPath(),
		},
		Storage: StorageConfig{
			Mode:                ModeLocal,
			DBPath:              defaultDBPath(),
			FirestoreCollection: "tasks",
		},
		UI: UIConfig{
			Theme:       "frappe",
			DefaultView: "editor",
		},
	}
}

// defaultDBPath returns the default sqlite database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "editflow.db"
	}
	return filepath.Join(home, ".local", "share", "editflow", "editflow.db")
}

// defaultLocalConfigPath returns the default roster blob path.
func defaultLocalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "local_config.json"
	}
	return filepath.Join(home, ".local", "share", "editflow", "local_config.json")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "editflow", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Storage.FirestoreCredentials = expandPath(cfg.Storage.FirestoreCredentials)
	cfg.Workspace.LocalConfigPath = expandPath(cfg.Workspace.LocalConfigPath)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	// Storage overrides
	if v := os.Getenv("EDITFLOW_STORAGE_MODE"); v != "" {
		cfg.Storage.Mode = v
	}
	if v := os.Getenv("EDITFLOW_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("EDITFLOW_FIRESTORE_PROJECT"); v != "" {
		cfg.Storage.FirestoreProject = v
	}
	if v := os.Getenv("EDITFLOW_FIRESTORE_CREDENTIALS"); v != "" {
		cfg.Storage.FirestoreCredentials = v
	}
	if v := os.Getenv("EDITFLOW_FIRESTORE_COLLECTION"); v != "" {
		cfg.Storage.FirestoreCollection = v
	}

	// Workspace overrides
	if v := os.Getenv("EDITFLOW_LOCAL_CONFIG_PATH"); v != "" {
		cfg.Workspace.LocalConfigPath = v
	}

	// UI overrides
	if v := os.Getenv("EDITFLOW_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("EDITFLOW_UI_DEFAULT_VIEW"); v != "" {
		cfg.UI.DefaultView = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Storage.Mode {
	case ModeLocal:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set for local storage")
		}
	case ModeCloud:
		if c.Storage.FirestoreProject == "" {
			return errors.New("firestore_project must be set for cloud storage")
		}
		if c.Storage.FirestoreCollection == "" {
			return errors.New("firestore_collection must be set for cloud storage")
		}
	case ModeMemory:
		// Nothing to check.
	default:
		return fmt.Errorf("unknown storage mode: %q", c.Storage.Mode)
	}

	switch c.UI.DefaultView {
	case "editor", "show":
	default:
		return fmt.Errorf("default_view must be %q or %q, got %q", "editor", "show", c.UI.DefaultView)
	}

	if c.Workspace.LocalConfigPath == "" {
		return errors.New("local_config_path must be set")
	}
	return nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
