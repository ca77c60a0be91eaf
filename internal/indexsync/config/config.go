// Package config holds the YAML configuration of a sync binding.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config binds one record collection to an index.
type Config struct {
	// Mode selects the gateway shape: "command" or "model".
	Mode string `yaml:"mode"`
	// Component names the registered command gateway (command mode).
	Component string `yaml:"component"`
	Index     string `yaml:"index"`
	Type      string `yaml:"type"`

	// Collection is the record collection whose lifecycle events are consumed.
	// Only the listener needs it; in-process hosts call the coordinator directly.
	Collection string `yaml:"collection"`
	// FieldMapPath points at the YAML field map. Empty means index every attribute.
	FieldMapPath string `yaml:"field_map_path"`
}

// DefaultConfig returns the default sync binding.
func DefaultConfig() Config {
	return Config{
		Mode:       "command",
		Component:  "elasticsearch",
		Type:       "_doc",
		Collection: "articles",
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Mode == "" {
		c.Mode = defaults.Mode
	}
	if c.Component == "" {
		c.Component = defaults.Component
	}
	if c.Type == "" {
		c.Type = defaults.Type
	}
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DOCSYNC_SYNC_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("DOCSYNC_SYNC_INDEX"); v != "" {
		c.Index = v
	}
	if v := os.Getenv("DOCSYNC_SYNC_TYPE"); v != "" {
		c.Type = v
	}
	if v := os.Getenv("DOCSYNC_SYNC_FIELD_MAP"); v != "" {
		c.FieldMapPath = v
	}
}

// ResolvePaths resolves a relative field map path against configDir.
func (c *Config) ResolvePaths(configDir string) {
	if c.FieldMapPath != "" && !filepath.IsAbs(c.FieldMapPath) {
		c.FieldMapPath = filepath.Join(configDir, c.FieldMapPath)
	}
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	switch c.Mode {
	case "command":
		if c.Index == "" {
			return fmt.Errorf("sync.index is required in command mode")
		}
		if c.Component == "" {
			return fmt.Errorf("sync.component is required in command mode")
		}
	case "model":
	default:
		return fmt.Errorf("invalid sync mode: %s (must be command or model)", c.Mode)
	}
	return nil
}
