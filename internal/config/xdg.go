// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "stealthlearn"

// Environment variables that override path and logging defaults.
const (
	EnvDataDir  = "STEALTHLEARN_DATA_DIR"
	EnvLogLevel = "STEALTHLEARN_LOG_LEVEL"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDataDir returns the directory holding persisted state.
func DefaultDataDir() string {
	if v := os.Getenv(EnvDataDir); v != "" {
		return v
	}
	return filepath.Join(XDGDataHome(), appName)
}

// DBPath returns the SQLite database path inside dataDir.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, appName+".db")
}

// LedgerPath returns the JSON sessions file used by the file backend.
func LedgerPath(dataDir string) string {
	return filepath.Join(dataDir, "analytics.json")
}

// UserIDPath returns the user id file used by the file backend.
func UserIDPath(dataDir string) string {
	return filepath.Join(dataDir, "user-id")
}

// LastGamePath returns the quick-play memory file used by the file backend.
func LastGamePath(dataDir string) string {
	return filepath.Join(dataDir, "last-game")
}

// LogPath returns the TUI log file path inside dataDir.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, appName+".log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
