package listener

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Config contains the JetStream listener settings.
type Config struct {
	URL          string `yaml:"url"`
	StreamName   string `yaml:"stream_name"`
	ConsumerName string `yaml:"consumer_name"`
	StorageType  string `yaml:"storage_type"`

	NumWorkers      int           `yaml:"num_workers"`
	ChannelBufSize  int           `yaml:"channel_buf_size"`
	MaxAttempts     int           `yaml:"max_attempts"`
	InitialBackoff  time.Duration `yaml:"initial_backoff"`
	MaxBackoff      time.Duration `yaml:"max_backoff"`
	HandleTimeout   time.Duration `yaml:"handle_timeout"`
	DrainTimeout    time.Duration `yaml:"drain_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns default listener configuration.
func DefaultConfig() Config {
	return Config{
		URL:             "nats://localhost:4222",
		StreamName:      "RECORDS",
		ConsumerName:    "docsync",
		StorageType:     "file",
		NumWorkers:      16,
		ChannelBufSize:  100,
		MaxAttempts:     5,
		InitialBackoff:  time.Second,
		MaxBackoff:      time.Minute,
		HandleTimeout:   30 * time.Second,
		DrainTimeout:    5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.URL == "" {
		c.URL = defaults.URL
	}
	if c.StreamName == "" {
		c.StreamName = defaults.StreamName
	}
	if c.ConsumerName == "" {
		c.ConsumerName = defaults.ConsumerName
	}
	if c.StorageType == "" {
		c.StorageType = defaults.StorageType
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = defaults.NumWorkers
	}
	if c.ChannelBufSize <= 0 {
		c.ChannelBufSize = defaults.ChannelBufSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaults.MaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = defaults.InitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaults.MaxBackoff
	}
	if c.HandleTimeout <= 0 {
		c.HandleTimeout = defaults.HandleTimeout
	}
	if c.DrainTimeout <= 0 {
		c.DrainTimeout = defaults.DrainTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DOCSYNC_NATS_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("DOCSYNC_NATS_STREAM"); v != "" {
		c.StreamName = v
	}
	if v := os.Getenv("DOCSYNC_NATS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.NumWorkers = n
		}
	}
}

// ResolvePaths resolves relative paths using the given base directory.
// No paths to resolve in listener config.
func (c *Config) ResolvePaths(_ string) { _ = c }

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("nats url is required")
	}
	if c.StreamName == "" {
		return errors.New("stream_name is required")
	}
	if c.ConsumerName == "" {
		return errors.New("consumer_name is required")
	}
	if c.StorageType != "file" && c.StorageType != "memory" {
		return errors.New("storage_type must be file or memory")
	}
	if c.NumWorkers < 0 {
		return errors.New("num_workers must be non-negative")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return errors.New("max_backoff must not be smaller than initial_backoff")
	}
	return nil
}

// StorageTypeValue returns the jetstream.StorageType from the config string.
func (c Config) StorageTypeValue() jetstream.StorageType {
	if c.StorageType == "memory" {
		return jetstream.MemoryStorage
	}
	return jetstream.FileStorage
}
