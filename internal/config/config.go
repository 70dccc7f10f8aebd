// Package config loads and validates patchkit's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Markers struct {
		Search  string `yaml:"search"`
		Divider string `yaml:"divider"`
		Replace string `yaml:"replace"`
	} `yaml:"markers"`

	Engine struct {
		MinimizeHunks *bool `yaml:"minimize_hunks"` // nil = default true
		Fuzzy         *bool `yaml:"fuzzy"`          // nil = default true
		DebounceMS    int   `yaml:"debounce_ms"`    // streaming debounce (default: 200)
		MaxFileSizeKB int   `yaml:"max_file_size_kb"`
	} `yaml:"engine"`

	Workspace struct {
		Root string `yaml:"root"`
		Lock bool   `yaml:"lock"` // acquire an exclusive workspace lock before applying
	} `yaml:"workspace"`

	Apply struct {
		Mode string `yaml:"mode"` // "all", "interactive", or "tui"
	} `yaml:"apply"`

	Log struct {
		Path        string `yaml:"path"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Load reads and validates a YAML config file, filling defaults for any
// field left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if cfg.Workspace.Root != "" {
		absRoot, err := filepath.Abs(cfg.Workspace.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
		}
		cfg.Workspace.Root = absRoot
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Markers.Search == "" {
		cfg.Markers.Search = "<<<<<<< SEARCH"
	}
	if cfg.Markers.Divider == "" {
		cfg.Markers.Divider = "======="
	}
	if cfg.Markers.Replace == "" {
		cfg.Markers.Replace = ">>>>>>> REPLACE"
	}
	if cfg.Engine.DebounceMS == 0 {
		cfg.Engine.DebounceMS = 200
	}
	if cfg.Engine.MaxFileSizeKB == 0 {
		cfg.Engine.MaxFileSizeKB = 1024
	}
	if cfg.Apply.Mode == "" {
		cfg.Apply.Mode = "all"
	}
}

// Validate checks the loaded values for consistency.
func (c *Config) Validate() error {
	switch c.Apply.Mode {
	case "all", "interactive", "tui":
	default:
		return fmt.Errorf("invalid apply mode %q (want all, interactive, or tui)", c.Apply.Mode)
	}
	if c.Engine.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative")
	}
	if c.Markers.Search == c.Markers.Divider || c.Markers.Divider == c.Markers.Replace || c.Markers.Search == c.Markers.Replace {
		return fmt.Errorf("marker lines must be distinct")
	}
	return nil
}

// GetMinimizeHunks returns whether blocks are reduced to minimal hunks.
// Defaults to true.
func (c *Config) GetMinimizeHunks() bool {
	if c.Engine.MinimizeHunks == nil {
		return true
	}
	return *c.Engine.MinimizeHunks
}

// GetFuzzy returns whether the indentation-tolerant fallback match runs
// after an exact miss. Defaults to true.
func (c *Config) GetFuzzy() bool {
	if c.Engine.Fuzzy == nil {
		return true
	}
	return *c.Engine.Fuzzy
}

// DebounceInterval returns the streaming debounce as a duration.
func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.Engine.DebounceMS) * time.Millisecond
}
