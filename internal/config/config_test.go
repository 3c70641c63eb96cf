package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5, cfg.BucketMinutes)
	assert.Equal(t, 5*time.Minute, cfg.BucketWidth)
	assert.Equal(t, time.Second, cfg.DrainInterval)
	assert.Equal(t, 12, cfg.RetentionBuckets)
	assert.Equal(t, "grid:facilities", cfg.FacilityStreamKey)
	assert.Equal(t, "grid:market", cfg.MarketStreamKey)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("BUCKET_MINUTES", "10")
	t.Setenv("DRAIN_INTERVAL_SEC", "2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10*time.Minute, cfg.BucketWidth)
	assert.Equal(t, 2*time.Second, cfg.DrainInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.BucketMinutes = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.DrainIntervalSec = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.RetentionBuckets = 1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.MarketStreamKey = cfg.FacilityStreamKey
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.LogLevel = "verbose"
	assert.Error(t, cfg.Validate())
}
