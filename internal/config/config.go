// Package config loads the optional global configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mydehq/organizer/internal/types"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the organizer config directory.
const FileName = "config.yml"

// GetDefaults returns the built-in configuration.
func GetDefaults() types.GlobalConfig {
	return types.GlobalConfig{
		LogFile:  "",
		LogLevel: "info",
		Prompt:   "auto",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/organizer/config.yml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "organizer", FileName), nil
}

// LoadGlobal reads the config at path, or at DefaultPath when path is empty.
// A missing file yields the defaults. Unset keys keep their default values.
func LoadGlobal(path string) (*types.GlobalConfig, error) {
	cfg := GetDefaults()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return &cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks enumerated fields.
func Validate(cfg *types.GlobalConfig) error {
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Prompt) {
	case "", "auto", "dialog", "terminal", "console":
	default:
		return fmt.Errorf("prompt: unknown mode %q", cfg.Prompt)
	}
	return nil
}

// ParseLevel maps a config level name to a log level; empty means info.
func ParseLevel(s string) (log.Level, error) {
	if strings.TrimSpace(s) == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
