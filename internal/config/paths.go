package config

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the directory holding config.json.
func ConfigDir() string {
	return filepath.Dir(ConfigPath())
}

// DataDir returns the directory for user data such as the todo file.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".grudge"
	}
	return filepath.Join(home, ".local", "share", "grudge")
}

// StateDir returns the directory for runtime state such as logs.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".grudge"
	}
	return filepath.Join(home, ".local", "state", "grudge")
}

// LogPath returns the debug log location.
func LogPath() string {
	return filepath.Join(StateDir(), "debug.log")
}
