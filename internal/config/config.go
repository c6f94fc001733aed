// Package config handles the cb settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents settings stored in ~/.config/cb/settings.yml.
//
// A Config is built once per process and passed to whatever needs it;
// there is no package-level instance.
type Config struct {
	DBFile    string `yaml:"db_file" validate:"required"`    // Path to the notes database, or ":memory:"
	CodeTheme string `yaml:"code_theme" validate:"required"` // Theme used when rendering notes
}

// Keys accepted by Get.
const (
	KeyDBFile    = "db_file"
	KeyCodeTheme = "code_theme"
)

// DefaultCodeTheme is the theme written to a new settings file.
const DefaultCodeTheme = "default"

// Environment variables that override the settings file.
const (
	EnvDBFile    = "CB_DB_FILE"
	EnvCodeTheme = "CB_CODE_THEME"
)

var validate = validator.New()

// Defaults returns the configuration used when no settings file exists.
func Defaults() (*Config, error) {
	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		DBFile:    filepath.Join(dataDir, DBFile),
		CodeTheme: DefaultCodeTheme,
	}, nil
}

// Load reads the settings file at path. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Bootstrap loads the settings file at path, first writing one with the
// default values if it doesn't exist yet.
func Bootstrap(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg, err := Defaults()
		if err != nil {
			return nil, err
		}
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("checking config: %w", err)
	}
	return Load(path)
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings with any non-empty CB_* environment variables.
func (c *Config) ApplyEnv() {
	c.DBFile = GetConfigValue(EnvDBFile, c.DBFile)
	c.CodeTheme = GetConfigValue(EnvCodeTheme, c.CodeTheme)
}

// Validate checks that every required setting is present.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s is required", yamlName(verrs[0].Field()))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Get returns the setting named key, or def if the key is unknown or unset.
func (c *Config) Get(key, def string) string {
	var v string
	switch key {
	case KeyDBFile:
		v = c.DBFile
	case KeyCodeTheme:
		v = c.CodeTheme
	}
	if v == "" {
		return def
	}
	return v
}

// GetConfigValue returns the environment variable envKey if set, else fallback.
func GetConfigValue(envKey, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

func yamlName(field string) string {
	switch field {
	case "DBFile":
		return KeyDBFile
	case "CodeTheme":
		return KeyCodeTheme
	}
	return field
}
