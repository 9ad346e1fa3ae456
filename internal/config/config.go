// Package config resolves specnav settings from its TOML file and
// environment overrides. Resolution happens once at process start; the
// result is handed to the scorer as an explicit options value so the
// scoring path itself never reads the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pvaldez/specnav/internal/align"
)

// Config holds all specnav configuration.
type Config struct {
	SpecRoot        string `toml:"spec_root"`
	AutoSave        bool   `toml:"auto_save"`
	ExplicitFolder  string `toml:"explicit_folder"`
	MaxEditDistance int    `toml:"max_edit_distance"`
	FreshWindowDays int    `toml:"fresh_window_days"`
	Journal         bool   `toml:"journal"`

	// Related maps a path to paths treated as coupled to it when
	// classifying parallel-agent activity.
	Related map[string][]string `toml:"related"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpecRoot:        "./specs",
		AutoSave:        true,
		ExplicitFolder:  "",
		MaxEditDistance: 1,
		FreshWindowDays: 7,
		Journal:         true,
	}
}

// Load reads config from the standard path, falling back to defaults,
// then applies environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.applyEnv()
	cfg.SpecRoot = expandHome(cfg.SpecRoot)
	return cfg, nil
}

// applyEnv layers SPECNAV_* variables over file values. Unparsable
// booleans are ignored rather than failing startup.
func (c *Config) applyEnv() {
	if v := os.Getenv("SPECNAV_ROOT"); v != "" {
		c.SpecRoot = v
	}
	if v := os.Getenv("SPECNAV_FOLDER"); v != "" {
		c.ExplicitFolder = v
	}
	if v := os.Getenv("SPECNAV_AUTO_SAVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoSave = b
		}
	}
	if v := os.Getenv("SPECNAV_JOURNAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Journal = b
		}
	}
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "specnav", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "specnav", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// AlignOptions converts the config into scorer options pinned to the
// given clock reading.
func (c Config) AlignOptions(now time.Time) align.Options {
	return align.Options{
		AutoSave:        c.AutoSave,
		ExplicitFolder:  c.ExplicitFolder,
		MaxEditDistance: c.MaxEditDistance,
		FreshWindow:     time.Duration(c.FreshWindowDays) * 24 * time.Hour,
		Now:             now,
	}
}

// StateDir returns the .specnav state directory inside the spec root.
func (c Config) StateDir() string {
	return filepath.Join(c.SpecRoot, ".specnav")
}

// ArchiveDir returns the directory archived folders are packed into.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.StateDir(), "archive")
}
