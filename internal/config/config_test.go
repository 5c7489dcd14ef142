package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz")
	cfg.Notify.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Notify.Webhook.URL = "https://hooks.example.com/orders"

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "USD", cfg.Business.Currency)
	assert.Equal(t, "Cash", cfg.Accounts.Cash)
	assert.Equal(t, "Retained Earnings", cfg.Accounts.RetainedEarnings)
	assert.Equal(t, DriverCSV, cfg.Storage.Driver)
	assert.Equal(t, 10*time.Second, cfg.Notify.Webhook.Timeout)
	assert.Empty(t, cfg.Notify.Kafka.Brokers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business: [oops"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Biz")
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "driver: csv")
	assert.Contains(t, contents, "retained_earnings: Retained Earnings")
	assert.Contains(t, contents, "timeout: 10s")
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"BOOKS_STORAGE_DRIVER=sqlite3\nBOOKS_KAFKA_BROKERS=k1:9092, k2:9092\nBOOKS_LOG_LEVEL=debug\n",
	), 0o644))

	for _, key := range []string{EnvStorageDriver, EnvKafkaBrokers, EnvLogLevel, EnvStorageDSN, EnvKafkaTopic, EnvWebhookURL} {
		unsetForTest(t, key)
	}
	// The process environment wins over the file.
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvWebhookURL, "https://hooks.example.com")

	cfg := Default("Env Biz")
	require.NoError(t, ApplyEnv(cfg, envFile))

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notify.Kafka.Brokers)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "https://hooks.example.com", cfg.Notify.Webhook.URL)
	assert.Equal(t, "order_completed", cfg.Notify.Kafka.Topic)
}

func TestApplyEnvMissingFile(t *testing.T) {
	unsetForTest(t, EnvStorageDriver)
	cfg := Default("x")
	require.NoError(t, ApplyEnv(cfg, filepath.Join(t.TempDir(), ".env")))
	assert.Equal(t, DriverCSV, cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"memory", func(c *Config) { c.Storage.Driver = DriverMemory }, true},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }, false},
		{"postgres with dsn", func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Storage.DSN = "postgres://localhost/books?sslmode=disable"
		}, true},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, false},
		{"empty driver", func(c *Config) { c.Storage.Driver = "" }, false},
		{"missing account name", func(c *Config) { c.Accounts.COGS = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("v")
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

// unsetForTest removes key for the duration of the test.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
