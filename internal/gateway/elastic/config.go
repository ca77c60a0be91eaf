package elastic

import (
	"errors"
	"os"
	"strings"
)

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	if len(c.Addresses) == 0 {
		c.Addresses = DefaultConfig().Addresses
	}
}

// ApplyEnvOverrides applies environment variable overrides.
// DOCSYNC_ELASTIC_ADDRESSES takes a comma separated list.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DOCSYNC_ELASTIC_ADDRESSES"); v != "" {
		c.Addresses = strings.Split(v, ",")
	}
	if v := os.Getenv("DOCSYNC_ELASTIC_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("DOCSYNC_ELASTIC_PASSWORD"); v != "" {
		c.Password = v
	}
}

// ResolvePaths resolves relative paths using the given base directory.
// No paths to resolve in elastic config.
func (c *Config) ResolvePaths(_ string) { _ = c }

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if len(c.Addresses) == 0 {
		return errors.New("elastic.addresses is required")
	}
	switch c.Refresh {
	case "", "true", "false", "wait_for":
	default:
		return errors.New("elastic.refresh must be true, false or wait_for")
	}
	return nil
}
