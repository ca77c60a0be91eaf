package config

import (
	"fmt"
	"log/slog"
	"os"

	elastic "github.com/syntrixbase/docsync/internal/gateway/elastic"
	mongo "github.com/syntrixbase/docsync/internal/gateway/mongo"
	indexsync "github.com/syntrixbase/docsync/internal/indexsync/config"
	"github.com/syntrixbase/docsync/internal/listener"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`

	Sync indexsync.Config `yaml:"sync"`

	// Components
	Elastic elastic.Config  `yaml:"elastic"`
	Mongo   mongo.Config    `yaml:"mongo"`
	NATS    listener.Config `yaml:"nats"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: DefaultLoggingConfig(),
		Metrics: DefaultMetricsConfig(),
		Sync:    indexsync.DefaultConfig(),
		Elastic: elastic.DefaultConfig(),
		Mongo:   mongo.DefaultConfig(),
		NATS:    listener.DefaultConfig(),
	}
}

// LoadConfig loads configuration from configDir and environment variables
// Order: defaults -> config.yml -> config.local.yml -> ApplyDefaults -> ApplyEnvOverrides -> ResolvePaths -> Validate
func LoadConfig(configDir string) (*Config, error) {
	// 1. Start with default values (so YAML can override them, including bool fields)
	cfg := DefaultConfig()

	// 2. Load config.yml (overrides defaults)
	if err := loadFile(configDir+"/config.yml", cfg); err != nil {
		return nil, err
	}

	// 3. Load config.local.yml (overrides config.yml)
	if err := loadFile(configDir+"/config.local.yml", cfg); err != nil {
		return nil, err
	}

	// 4. Apply configuration lifecycle
	if err := ApplyServiceConfigs(configDir,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.Sync,
		&cfg.Elastic,
		&cfg.Mongo,
		&cfg.NATS,
	); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	return cfg, nil
}

func loadFile(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, skip
		}
		slog.Warn("Error reading config file", "file", filename, "error", err)
		return nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return nil
}
