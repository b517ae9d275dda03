package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// testConfigPath redirects config I/O during tests.
var testConfigPath string

// SetTestConfigPath overrides the config path for tests.
func SetTestConfigPath(path string) {
	testConfigPath = path
}

// ResetTestConfigPath restores the default config path.
func ResetTestConfigPath() {
	testConfigPath = ""
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".config", "grudge", "config.json")
}

// Load reads the config from disk, merging it over the defaults. A missing
// file is not an error: first run gets the stock config.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Maps emptied by unmarshal need to stay non-nil for callers.
	if cfg.Keymap.Overrides == nil {
		cfg.Keymap.Overrides = make(map[string]string)
	}
	if cfg.UI.Theme.Overrides == nil {
		cfg.UI.Theme.Overrides = make(map[string]string)
	}
	if cfg.Features.Flags == nil {
		cfg.Features.Flags = make(map[string]bool)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
