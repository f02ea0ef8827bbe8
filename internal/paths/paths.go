// Package paths resolves the directories smarttodo reads and writes.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const appName = "smarttodo"

// EnvStateDir overrides the state directory.
const EnvStateDir = "TODO_STATE_DIR"

// HomeDir returns the current user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// DefaultStateDir returns the default smarttodo state directory.
func DefaultStateDir() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// DefaultConfigDir returns the directory holding the global config file,
// calendar credentials and the cached calendar token.
func DefaultConfigDir() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// ResolveWithDefault returns override when set, otherwise the fallback.
func ResolveWithDefault(override string, fallback func() (string, error)) (string, error) {
	if strings.TrimSpace(override) != "" {
		return override, nil
	}
	return fallback()
}

// StateDir resolves the state directory: an explicit override, then
// TODO_STATE_DIR, then the default.
func StateDir(override string) (string, error) {
	if strings.TrimSpace(override) == "" {
		override = os.Getenv(EnvStateDir)
	}
	return ResolveWithDefault(override, DefaultStateDir)
}

// ExpandHome replaces a leading "~/" with the home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
