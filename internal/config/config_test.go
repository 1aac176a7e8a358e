package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, SourceEmbedded, cfg.Fixture.Source)
	assert.Equal(t, DriverSQLite, cfg.Fixture.Driver)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, "library-desk", cfg.Logger.ServiceName)
	assert.Equal(t, "console", cfg.Logger.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_ProductionLoggerDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Logger.EnableSampling)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "HTTP_PORT=9090\nFIXTURE_SOURCE=file\nFIXTURE_DIR=/data/fixtures\nRATE_LIMIT_RPS=2.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	// Environment wins over the file.
	assert.Equal(t, "7070", cfg.App.HTTPPort)
	assert.Equal(t, SourceFile, cfg.Fixture.Source)
	assert.Equal(t, "/data/fixtures", cfg.Fixture.Dir)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:       AppConfig{HTTPPort: "8080", ShutdownTimeout: time.Second},
			Fixture:   FixtureConfig{Source: SourceEmbedded},
			RateLimit: RateLimitConfig{RequestsPerSecond: 1, Burst: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.App.HTTPPort = "" }, wantErr: "HTTP_PORT"},
		{name: "zero shutdown", mutate: func(c *Config) { c.App.ShutdownTimeout = 0 }, wantErr: "SHUTDOWN_TIMEOUT"},
		{name: "unknown source", mutate: func(c *Config) { c.Fixture.Source = "s3" }, wantErr: `unknown FIXTURE_SOURCE "s3"`},
		{name: "file without dir", mutate: func(c *Config) { c.Fixture.Source = SourceFile }, wantErr: "FIXTURE_DIR"},
		{
			name: "unknown driver",
			mutate: func(c *Config) {
				c.Fixture.Source = SourceDatabase
				c.Fixture.Driver = "mysql"
			},
			wantErr: `unknown FIXTURE_DB_DRIVER "mysql"`,
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.Fixture.Source = SourceDatabase
				c.Fixture.Driver = DriverSQLite
			},
			wantErr: "FIXTURE_DB_PATH",
		},
		{
			name: "rate limit without burst",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.Burst = 0
			},
			wantErr: "RATE_LIMIT_BURST",
		},
		{
			name: "disabled rate limit ignores values",
			mutate: func(c *Config) {
				c.RateLimit = RateLimitConfig{}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFixtureDSN(t *testing.T) {
	sqlite := FixtureConfig{Driver: DriverSQLite, SQLitePath: "/tmp/lib.db"}
	assert.Equal(t, "/tmp/lib.db", sqlite.DSN())

	pg := FixtureConfig{
		Driver: DriverPostgres, Host: "db", Port: "5432",
		User: "u", Password: "p", Name: "lib", SSLMode: "disable",
	}
	assert.Equal(t, "host=db user=u password=p dbname=lib port=5432 sslmode=disable", pg.DSN())
}
