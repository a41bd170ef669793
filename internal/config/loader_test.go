package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8081
  mode: release
database:
  host: db.internal
  user: sds
  password: secret
  db_name: sds
session:
  store: memory
  ttl: 2h
pubchem:
  timeout: 3s
  concurrency: 2
kafka:
  enabled: true
  brokers: ["kafka-1:9092", "kafka-2:9092"]
minio:
  enabled: true
  bucket: sds-reports
log:
  level: debug
  format: console
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 3*time.Second, cfg.PubChem.Timeout)
	assert.Equal(t, 2, cfg.PubChem.Concurrency)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "sds-reports", cfg.MinIO.Bucket)
	assert.Equal(t, "console", cfg.Log.Format)
	// untouched sections fall back to defaults
	assert.Equal(t, DefaultKafkaTopic, cfg.Kafka.Topic)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server: ["))
	require.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "database:\n  user: sds\nlog:\n  level: loud\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SDS_SERVER_PORT", "9000")
	t.Setenv("SDS_PUBCHEM_TIMEOUT", "7s")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 7*time.Second, cfg.PubChem.Timeout)
}

func TestLoadFromEnv_NoFile(t *testing.T) {
	t.Setenv("SDS_DATABASE_USER", "sds")
	t.Setenv("SDS_SESSION_STORE", "memory")
	t.Setenv("SDS_REDIS_ADDR", "cache:6379")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sds", cfg.Database.User)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestMustLoad_Success(t *testing.T) {
	assert.NotPanics(t, func() {
		cfg := MustLoad(createTempConfigFile(t, validConfigYAML))
		assert.NotNil(t, cfg)
	})
}

func TestMustLoad_Panic(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	changed := make(chan *Config, 16)
	Watch(path, func(c *Config) { changed <- c }, nil)

	updated := validConfigYAML + "metrics:\n  namespace: wizard\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case c := <-changed:
		assert.Equal(t, "wizard", c.Metrics.Namespace)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}

//Personal.AI order the ending
