package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretscout/fretscout/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
storage:
  driver: sqlite
  sqlite:
    path: /tmp/fretscout-test.db
ebay:
  marketplace: EBAY_GB
  rate_limit:
    per_second: 2.5
    daily_limit: 1000
alerts:
  enabled: true
  poll_interval: 5m
logging:
  level: debug
  format: json
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/fretscout-test.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, "EBAY_GB", cfg.Ebay.Marketplace)
	assert.InDelta(t, 2.5, cfg.Ebay.RateLimit.PerSecond, 0.001)
	assert.Equal(t, int64(1000), cfg.Ebay.RateLimit.DailyLimit)
	assert.True(t, cfg.Alerts.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Alerts.PollInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fields pick up defaults.
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10, cfg.Ebay.RateLimit.Burst)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "fretscout.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, 50, cfg.Valuation.DefaultLimit)
	assert.Equal(t, 15*time.Minute, cfg.Alerts.PollInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("FRETSCOUT_TEST_DB_PATH", "/var/lib/fretscout.db")

	path := writeConfig(t, `
storage:
  driver: sqlite
  sqlite:
    path: ${FRETSCOUT_TEST_DB_PATH}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/fretscout.db", cfg.Storage.SQLite.Path)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, `server: [not a map`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config YAML")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown driver",
			yaml:    "storage:\n  driver: mysql\n",
			wantErr: "storage.driver must be one of",
		},
		{
			name:    "postgres without host",
			yaml:    "storage:\n  driver: postgres\n  postgres:\n    name: fs\n    user: fs\n",
			wantErr: "storage.postgres.host is required",
		},
		{
			name:    "discord enabled without URL",
			yaml:    "notifications:\n  discord:\n    enabled: true\n",
			wantErr: "notifications.discord.webhook_url is required",
		},
		{
			name:    "min score out of range",
			yaml:    "valuation:\n  default_min_score: 150\n",
			wantErr: "default_min_score must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)

			_, err := config.Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	t.Parallel()

	pg := config.PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		Name:     "fretscout",
		User:     "scout",
		Password: "hunter2",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 dbname=fretscout user=scout password=hunter2 sslmode=require",
		pg.DSN(),
	)
}
