package config

import (
	"os"
	"path/filepath"
)

// TrackerPath returns the root directory for tracker files.
// It uses $TRACKER_PATH if set, otherwise defaults to ~/.tracker.
func TrackerPath() string {
	if v := os.Getenv("TRACKER_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".tracker")
	}
	return filepath.Join(home, ".tracker")
}

// ConfigPath returns the path to the tracker config file.
func ConfigPath() string {
	return filepath.Join(TrackerPath(), "config.jsonc")
}

// DotenvPath returns the path to the tracker .env file.
func DotenvPath() string {
	return filepath.Join(TrackerPath(), ".env")
}
