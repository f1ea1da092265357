package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDir returns the path to the cable config directory (~/.cable).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".cable"), nil
}

// DefaultPath returns the path of the named config file. Absolute names are
// returned as-is; others live in ConfigDir.
func DefaultPath(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
