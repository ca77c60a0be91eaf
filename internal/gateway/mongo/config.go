package mongo

import (
	"errors"
	"os"
)

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.URI == "" {
		c.URI = defaults.URI
	}
	if c.Database == "" {
		c.Database = defaults.Database
	}
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DOCSYNC_MONGO_URI"); v != "" {
		c.URI = v
	}
	if v := os.Getenv("DOCSYNC_MONGO_DATABASE"); v != "" {
		c.Database = v
	}
}

// ResolvePaths resolves relative paths using the given base directory.
// No paths to resolve in mongo config.
func (c *Config) ResolvePaths(_ string) { _ = c }

// Validate returns an error if the configuration is invalid. The collection is
// only required when the model gateway is in use, which Connect checks.
func (c *Config) Validate() error {
	if c.URI == "" {
		return errors.New("mongo.uri is required")
	}
	if c.Database == "" {
		return errors.New("mongo.database is required")
	}
	return nil
}
