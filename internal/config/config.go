package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the integrator service configuration.
type Config struct {
	// Redis transport
	RedisURL          string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	ConsumerGroup     string `env:"CONSUMER_GROUP" envDefault:"integrator"`
	FacilityStreamKey string `env:"FACILITY_STREAM_KEY" envDefault:"grid:facilities"`
	MarketStreamKey   string `env:"MARKET_STREAM_KEY" envDefault:"grid:market"`

	// Facility metadata
	MetadataDBPath string `env:"METADATA_DB_PATH" envDefault:"energy_dw.db"`

	// Correlation windows
	BucketMinutes    int `env:"BUCKET_MINUTES" envDefault:"5"`
	DrainIntervalSec int `env:"DRAIN_INTERVAL_SEC" envDefault:"1"`
	RetentionBuckets int `env:"RETENTION_BUCKETS" envDefault:"12"`

	// Computed durations (not from env)
	BucketWidth   time.Duration `env:"-"`
	DrainInterval time.Duration `env:"-"`

	// HTTP surfaces
	Port           int `env:"PORT" envDefault:"8080"`
	APITimeoutMS   int `env:"API_TIMEOUT_MS" envDefault:"500"`
	PrometheusPort int `env:"PROMETHEUS_PORT" envDefault:"9091"`

	// Observability
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	cfg.BucketWidth = time.Duration(cfg.BucketMinutes) * time.Minute
	cfg.DrainInterval = time.Duration(cfg.DrainIntervalSec) * time.Second

	return cfg, nil
}

// APITimeout returns the per-request timeout for the snapshot API.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutMS) * time.Millisecond
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BucketMinutes < 1 {
		return fmt.Errorf("bucket width must be at least 1 minute")
	}

	if c.DrainIntervalSec < 1 {
		return fmt.Errorf("drain interval must be at least 1 second")
	}

	// One-back market fallback needs the previous bucket to survive.
	if c.RetentionBuckets < 2 {
		return fmt.Errorf("retention must keep at least 2 buckets")
	}

	if c.FacilityStreamKey == "" || c.MarketStreamKey == "" {
		return fmt.Errorf("both stream keys must be set")
	}

	if c.FacilityStreamKey == c.MarketStreamKey {
		return fmt.Errorf("facility and market stream keys must differ")
	}

	if c.MetadataDBPath == "" {
		return fmt.Errorf("metadata database path must be set")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
