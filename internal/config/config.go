package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FilePermissions is the default permission mode for regular files
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories
	DirPermissions = 0755
)

var (
	// ConfigDir is the global configuration directory (~/.nbtree)
	ConfigDir string

	// KeymapPath is the user keybinding configuration file
	KeymapPath string

	// SessionPath is the session state file
	SessionPath string

	// DatabasePath is the SQLite database for action history
	DatabasePath string

	// LogPath is the log file; the TUI owns the terminal, so logs go here
	LogPath string
)

// Initialize sets up the configuration directory and file paths, creating
// ~/.nbtree/ if it doesn't exist.
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	ConfigDir = filepath.Join(homeDir, ".nbtree")
	KeymapPath = filepath.Join(ConfigDir, "keymap.json")
	SessionPath = filepath.Join(ConfigDir, "session.json")
	DatabasePath = filepath.Join(ConfigDir, "nbtree.db")
	LogPath = filepath.Join(ConfigDir, "nbtree.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", ConfigDir, err)
	}

	if _, err := os.Stat(SessionPath); os.IsNotExist(err) {
		defaultSession := []byte(`{"sort":"name","recent":[]}`)
		if err := os.WriteFile(SessionPath, defaultSession, FilePermissions); err != nil {
			return fmt.Errorf("failed to create session file: %w", err)
		}
	}

	return nil
}

// ResolveDir resolves the notebook directory argument: "" means the current
// directory, "~/..." expands to the home directory, and relative paths are
// resolved against the caller's working directory.
func ResolveDir(arg string) (string, error) {
	if arg == "" {
		dir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return dir, nil
	}

	if strings.HasPrefix(arg, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		arg = filepath.Join(homeDir, arg[2:])
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", arg, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot open directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}

	return abs, nil
}
