package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker   = "localhost:9092"
	testMapboxToken = "pk.test-token"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.TickInterval)
	assert.Equal(t, uint64(0), cfg.RandomSeed)
	assert.Empty(t, cfg.SeedFile)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "noise-snapshots", cfg.KafkaSnapshotTopic)
	assert.Equal(t, 16, cfg.KafkaBufferSize)
	assert.Equal(t, 50, cfg.KafkaBatchSize)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.Equal(t, StoreSQLite, cfg.ReportStore)
	assert.Equal(t, "noise_reports.db", cfg.SQLitePath)
	assert.Equal(t, "NoiseReports", cfg.DynamoDBTable)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("TICK_INTERVAL", "1s")
	t.Setenv("RANDOM_SEED", "42")
	t.Setenv("SEED_FILE", "data/mock/seed.yaml")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SNAPSHOT_TOPIC", "custom-snapshots")
	t.Setenv("KAFKA_BUFFER_SIZE", "64")
	t.Setenv("BATCH_SIZE", "8")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")
	t.Setenv("REPORT_STORE", StorePostgres)
	t.Setenv("POSTGRES_DSN", "postgres://localhost/soundscape?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, uint64(42), cfg.RandomSeed)
	assert.Equal(t, "data/mock/seed.yaml", cfg.SeedFile)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-snapshots", cfg.KafkaSnapshotTopic)
	assert.Equal(t, 64, cfg.KafkaBufferSize)
	assert.Equal(t, 8, cfg.KafkaBatchSize)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
	assert.Equal(t, StorePostgres, cfg.ReportStore)
	assert.Equal(t, "postgres://localhost/soundscape?sslmode=disable", cfg.PostgresDSN)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidTickInterval(t *testing.T) {
	for _, v := range []string{"soon", "0s", "-5s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("TICK_INTERVAL", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "TICK_INTERVAL")
		})
	}
}

func TestLoad_InvalidRandomSeed(t *testing.T) {
	t.Setenv("RANDOM_SEED", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RANDOM_SEED")
}

func TestLoad_InvalidKafkaBufferSize(t *testing.T) {
	t.Setenv("KAFKA_BUFFER_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BUFFER_SIZE")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "5000")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidMapboxTimeout(t *testing.T) {
	t.Setenv("MAPBOX_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TIMEOUT")
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("REPORT_STORE", StorePostgres)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")
}

func TestLoad_UnknownReportStore(t *testing.T) {
	t.Setenv("REPORT_STORE", "mongodb")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPORT_STORE")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TICK_INTERVAL=2s\nLOG_LEVEL=warn\n"), 0o600))

	// Register restores, then clear so the file can supply the values.
	t.Setenv("TICK_INTERVAL", "")
	t.Setenv("LOG_LEVEL", "debug")
	require.NoError(t, os.Unsetenv("TICK_INTERVAL"))

	require.NoError(t, LoadDotEnv(path))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.TickInterval)
	assert.Equal(t, "debug", cfg.LogLevel, "existing variables are not overridden")
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}
