package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 1, cfg.OriginID)
	assert.Equal(t, "sql", cfg.RouteCacheKind)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	body := "port: \"9000\"\norigin_id: 3\nkafka_brokers: [\"a:9092\"]\nroute_cache: redis\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("ORIGIN_ID", "2")
	t.Setenv("KAFKA_BROKERS", "b:9092, c:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2, cfg.OriginID)
	assert.Equal(t, []string{"b:9092", "c:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "redis", cfg.RouteCacheKind)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")

	t.Setenv("ORIGIN_ID", "zero")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ORIGIN_ID", "0")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("ORIGIN_ID", "1")
	t.Setenv("ROUTE_CACHE", "memcached")
	_, err = Load()
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	t.Setenv("FLEET_TEST_KEY", "  value ")
	assert.Equal(t, "value", Get("FLEET_TEST_KEY", "x"))
	assert.Equal(t, "x", Get("FLEET_TEST_MISSING", "x"))
}
