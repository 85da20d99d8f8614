package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutribot/internal/profile"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 0.7, cfg.Cache.SimilarityThreshold)
	assert.Equal(t, 0.015, cfg.Cache.CostPerCall)
	assert.Equal(t, 1000, cfg.Cache.ExactCapacity)
	assert.Equal(t, 50, cfg.Cache.PatternsPerUser)
	assert.Equal(t, profile.TypeMemory, cfg.Profile.Type)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Generator.APIKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("CACHE_TTL", "1h30m")
	t.Setenv("CACHE_SIMILARITY_THRESHOLD", "0.85")
	t.Setenv("CACHE_EXACT_CAPACITY", "25")
	t.Setenv("PROFILE_STORE", "sqlite")
	t.Setenv("PROFILE_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("LOG_FORMAT", "pretty")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 90*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 0.85, cfg.Cache.SimilarityThreshold)
	assert.Equal(t, 25, cfg.Cache.ExactCapacity)
	assert.Equal(t, profile.TypeSQLite, cfg.Profile.Type)
	assert.Equal(t, "/tmp/x.db", cfg.Profile.SQLite.Path)
	assert.Equal(t, "pretty", cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	t.Setenv("CACHE_SIMILARITY_THRESHOLD", "1.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_SIMILARITY_THRESHOLD")
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	// Unparseable values fall back to defaults rather than failing startup.
	t.Setenv("CACHE_EXACT_CAPACITY", "lots")
	t.Setenv("CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Cache.ExactCapacity)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
}
