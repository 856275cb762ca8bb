package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"ERGOSANITAS_ENV", "ERGOSANITAS_ADDR", "ERGOSANITAS_BACKEND", "ERGOSANITAS_REFRESH_INTERVAL",
		"ERGOSANITAS_LOG_LEVEL", "ERGOSANITAS_ESCALATION_TO", "ERGOSANITAS_HASH_PASSWORDS",
	} {
		t.Setenv(k, "")
	}
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.HashPasswords)
	assert.Empty(t, cfg.Email.Recipients)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ERGOSANITAS_ENV", "production")
	t.Setenv("ERGOSANITAS_BACKEND", "redis")
	t.Setenv("ERGOSANITAS_REDIS_POOL_SIZE", "25")
	t.Setenv("ERGOSANITAS_REFRESH_INTERVAL", "1m")
	t.Setenv("ERGOSANITAS_LOG_LEVEL", "debug")
	t.Setenv("ERGOSANITAS_ESCALATION_TO", "medico@liga.cl, , jefe@liga.cl")
	t.Setenv("ERGOSANITAS_HASH_PASSWORDS", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, 25, cfg.Redis.PoolSize)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"medico@liga.cl", "jefe@liga.cl"}, cfg.Email.Recipients)
	assert.True(t, cfg.HashPasswords)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"ERGOSANITAS_BACKEND":          "postgres",
		"ERGOSANITAS_REDIS_POOL_SIZE":  "-1",
		"ERGOSANITAS_REFRESH_INTERVAL": "10ms",
		"ERGOSANITAS_LOG_LEVEL":        "loud",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
