package config

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	// AppDir is the directory name under XDG_CONFIG_HOME and XDG_DATA_HOME.
	AppDir = "cb"
	// SettingsFile is the settings file name.
	SettingsFile = "settings.yml"
	// DBFile is the default database file name.
	DBFile = "notes.db"
)

// ErrUnsupportedPlatform is returned when no home directory can be found
// to place the settings and database under.
var ErrUnsupportedPlatform = errors.New("unsupported platform: cannot determine home directory")

// SettingsPath returns the path to the settings file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/cb/settings.yml.
func SettingsPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDir, SettingsFile), nil
}

// DataDir returns the directory holding the default database.
// Respects XDG_DATA_HOME, defaults to ~/.local/share/cb.
func DataDir() (string, error) {
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDir), nil
}

func xdgDir(envKey, homeRel string) (string, error) {
	if dir := os.Getenv(envKey); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrUnsupportedPlatform
	}
	return filepath.Join(home, homeRel), nil
}
