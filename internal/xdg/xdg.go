// Package xdg provides XDG Base Directory Specification compliant paths
package xdg

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the XDG config directory for demoforge
// Priority: XDG_CONFIG_HOME > ~/.config/demoforge
func ConfigDir() (string, error) {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "demoforge"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "demoforge"), nil
}

// DataDir returns the XDG data directory for demoforge
// Priority: XDG_DATA_HOME > ~/.local/share/demoforge
func DataDir() (string, error) {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "demoforge"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "demoforge"), nil
}

// CacheDir returns the XDG cache directory for demoforge
// Priority: XDG_CACHE_HOME > ~/.cache/demoforge
func CacheDir() (string, error) {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "demoforge"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".cache", "demoforge"), nil
}

// StateDir returns the XDG state directory for demoforge
// Priority: XDG_STATE_HOME > ~/.local/state/demoforge
func StateDir() (string, error) {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "demoforge"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "state", "demoforge"), nil
}

// EnsureDir creates a directory if it does not exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
