package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDecodesDurationsAndMaps(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("workers", 6)
	viper.Set("retry.max_attempts", 4)
	viper.Set("retry.initial_delay", "2s")
	viper.Set("retry.backoff_factor", 1.5)
	viper.Set("rate_limit_buffer", "100ms")
	viper.Set("rate_limits", map[string]any{
		"rdap.example": map[string]any{"capacity": 5, "window": "30s"},
	})
	viper.Set("store.path", "/tmp/domainworth-test.db")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 6, cfg.Workers)
	require.Equal(t, 4, cfg.Retry.MaxAttempts)
	require.Equal(t, 2*time.Second, cfg.Retry.InitialDelay)
	require.InDelta(t, 1.5, cfg.Retry.BackoffFactor, 0.0001)
	require.Equal(t, 100*time.Millisecond, cfg.RateLimitBuffer)

	limit := cfg.RateLimitFor("rdap.example")
	require.Equal(t, 5, limit.Capacity)
	require.Equal(t, 30*time.Second, limit.Window)
}

func TestLoadDefaultsStorePathWhenUnset(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Store.Path)
}

func TestRateLimitForFallsBack(t *testing.T) {
	cfg := &Config{}

	limit := cfg.RateLimitFor("api.github.com")
	require.Equal(t, 60, limit.Capacity)
	require.Equal(t, time.Hour, limit.Window)

	limit = cfg.RateLimitFor("unknown.example")
	require.Equal(t, 30, limit.Capacity)
	require.Equal(t, time.Minute, limit.Window)
}

func TestGetConfigReflectsLatestLoad(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("workers", 2)

	cfg, err := Load()
	require.NoError(t, err)
	require.Same(t, cfg, GetConfig())
}
