package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_Defaults(t *testing.T) {
	cfg, err := Process()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPPort)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, "memory", cfg.StorageDriver)
	assert.Equal(t, "file", cfg.CatalogDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.CatalogTTL)
	assert.False(t, cfg.NeedsDatabase())
}

func TestProcess_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_SENTINEL_ADDRS", "10.0.0.1:26379,10.0.0.2:26379")
	t.Setenv("CATALOG_DRIVER", "postgres")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("DEFAULT_LOCALE", "es")

	cfg, err := Process()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.StorageDriver)
	assert.Equal(t, []string{"10.0.0.1:26379", "10.0.0.2:26379"}, cfg.RedisSentinelAddrs)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "es", cfg.DefaultLocale)
	assert.True(t, cfg.NeedsDatabase())
}

func TestProcess_InvalidDuration(t *testing.T) {
	t.Setenv("CATALOG_TTL", "soon")

	_, err := Process()
	assert.Error(t, err)
}
