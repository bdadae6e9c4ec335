// Package paths provides a single source of truth for gdbmi file paths.
// All path helpers honor environment variable overrides for isolated testing.
//
// Path resolution precedence:
//  1. GDBMI_DIR env var sets the base directory (derives config and log paths)
//  2. Default behavior (~/.gdbmi, ~/.config/gdbmi) when it is not set
package paths

import (
	"os"
	"path/filepath"
)

// EnvDir is the base directory override (e.g., /tmp/gdbmi-test).
// When set, the config and log paths derive from this directory.
const EnvDir = "GDBMI_DIR"

// BaseDir returns the gdbmi base directory (~/.gdbmi by default).
// Honors GDBMI_DIR environment variable.
func BaseDir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gdbmi"), nil
}

// ConfigDir returns the gdbmi config directory (~/.config/gdbmi by default).
// When GDBMI_DIR is set, returns GDBMI_DIR/config instead.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return filepath.Join(dir, "config"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gdbmi"), nil
}

// ConfigPath returns the path to the gdbmi config file
// (~/.config/gdbmi/config.toml by default, or GDBMI_DIR/config/config.toml).
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the default log file path
// (~/.gdbmi/gdbmi.log, or GDBMI_DIR/gdbmi.log).
func LogPath() string {
	base, err := BaseDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gdbmi.log")
	}
	return filepath.Join(base, "gdbmi.log")
}

// HistoryPath returns the path of the command history kept by the
// interactive front ends (~/.gdbmi/history, or GDBMI_DIR/history).
func HistoryPath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "history"), nil
}
