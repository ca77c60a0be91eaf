package config

import (
	"errors"
	"os"
)

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Path    string `yaml:"path"`
}

// DefaultMetricsConfig returns default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled: true,
		Listen:  ":9090",
		Path:    "/metrics",
	}
}

// ApplyDefaults fills in missing values with defaults
func (c *MetricsConfig) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = ":9090"
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

// ApplyEnvOverrides applies environment variable overrides
func (c *MetricsConfig) ApplyEnvOverrides() {
	if v := os.Getenv("DOCSYNC_METRICS_LISTEN"); v != "" {
		c.Listen = v
	}
}

// ResolvePaths is a no-op for metrics config
func (c *MetricsConfig) ResolvePaths(_ string) {}

// Validate validates the configuration
func (c *MetricsConfig) Validate() error {
	if c.Enabled && c.Listen == "" {
		return errors.New("metrics.listen cannot be empty when metrics are enabled")
	}
	if c.Path == "" || c.Path[0] != '/' {
		return errors.New("metrics.path must start with /")
	}
	return nil
}
