package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load()

	assert.Equal(t, "8086", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "trade.events", cfg.AMQPExchange)
	assert.Equal(t, 512, cfg.UserCacheSize)
	assert.Equal(t, time.Minute, cfg.UserCacheTTL)
	assert.False(t, cfg.DebugRoutes)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("USER_CACHE_SIZE", "16")
	t.Setenv("USER_CACHE_TTL", "10s")
	t.Setenv("DEBUG_ROUTES", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, 16, cfg.UserCacheSize)
	assert.Equal(t, 10*time.Second, cfg.UserCacheTTL)
	assert.True(t, cfg.DebugRoutes)
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("STORE_TIMEOUT", "soon")
	t.Setenv("USER_CACHE_SIZE", "many")

	cfg := Load()

	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 512, cfg.UserCacheSize)
}

func TestValidateRequiresSecret(t *testing.T) {
	cfg := &Config{StoreTimeout: time.Second, UserCacheSize: 1, UserCacheTTL: time.Second}
	require.Error(t, cfg.Validate())

	cfg.JWTSecret = "x"
	require.NoError(t, cfg.Validate())
}
