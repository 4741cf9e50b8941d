package ripple

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "X-API-Key", cfg.APIKeyHeader)
	assert.Equal(t, "ripple_events.db", cfg.DatabasePath)
	assert.Equal(t, DefaultMaxStorageSize, cfg.MaxStorageSize)
	assert.Equal(t, 100, cfg.MaxBatchSize)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "WARN", cfg.LogLevel)
	assert.False(t, cfg.TargetingEnabled)
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("RIPPLE_APP_ID", "app-1")
	t.Setenv("RIPPLE_ENDPOINT", "https://collector.example.com/events")
	t.Setenv("RIPPLE_TARGETING_ENABLED", "true")
	t.Setenv("RIPPLE_SUBMIT_INTERVAL", "30s")
	t.Setenv("RIPPLE_MAX_STORAGE_SIZE", "1024")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "app-1", cfg.AppID)
	assert.Equal(t, "https://collector.example.com/events", cfg.Endpoint)
	assert.True(t, cfg.TargetingEnabled)
	assert.Equal(t, 30*time.Second, cfg.SubmitInterval)
	assert.Equal(t, int64(1024), cfg.MaxStorageSize)
}

func TestLoadConfigFromEnv_Error(t *testing.T) {
	t.Setenv("RIPPLE_MAX_BATCH_SIZE", "not-an-int")

	_, err := LoadConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}
