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

	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, 18, cfg.Tile.MaxZoom)
	assert.Equal(t, "{z}-{x}-{y}", cfg.Tile.Format)
	assert.Equal(t, 10, cfg.Tile.MaxPyramidDelta)
	assert.Equal(t, time.Hour, cfg.Cache.AreaCacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Worker.StreamReadTimeout)
	assert.Equal(t, 3, cfg.Worker.MaxRetries)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/areas.db")
	t.Setenv("TILE_MAX_ZOOM", "17")
	t.Setenv("AREA_CACHE_TTL", "60")
	t.Setenv("WORKER_STREAM_READ_TIMEOUT", "250")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddr())
	assert.Equal(t, "/tmp/areas.db", cfg.GetDatabaseDSN())
	assert.Equal(t, 17, cfg.Tile.MaxZoom)
	assert.Equal(t, time.Minute, cfg.Cache.AreaCacheTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Worker.StreamReadTimeout)
	assert.Equal(t, "redis:6379", cfg.GetRedisAddr())
	assert.False(t, cfg.Metrics.Enabled)
}

func TestGetDatabaseDSN_Postgres(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Driver:   "pgx",
		Host:     "db",
		Port:     5432,
		User:     "ml",
		Password: "secret",
		DBName:   "ml_tm",
		SSLMode:  "disable",
	}}

	assert.Equal(t, "host=db port=5432 user=ml password=secret dbname=ml_tm sslmode=disable", cfg.GetDatabaseDSN())
}
