package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, ":50051", cfg.GRPC.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Redis.AllocationTTL)
	assert.Equal(t, 5*time.Minute, cfg.MySQL.ConnMaxLifetime)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ALLOC_APP_ENV", "production")
	t.Setenv("ALLOC_HTTP_ADDR", ":9090")
	t.Setenv("ALLOC_REDIS_ALLOCATION_TTL", "1h")
	t.Setenv("ALLOC_MYSQL_MAX_OPEN_CONNS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.AllocationTTL)
	assert.Equal(t, 7, cfg.MySQL.MaxOpenConns)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("ALLOC_REDIS_POOL_SIZE", "many")

	_, err := Load()
	assert.Error(t, err)
}
