package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef-test"

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SHORTLINK_SESSION_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.GetServerAddress())
	assert.Equal(t, "http://localhost:8080", cfg.GetBaseURL())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "urls.db", cfg.Database.Path)
	assert.Equal(t, 6, cfg.App.ShortCodeLength)
	assert.Equal(t, 10000, cfg.App.MaxAttempts)
	assert.Equal(t, "none", cfg.Cache.Driver)
	assert.Equal(t, time.Hour, cfg.CacheTTL())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.Empty(t, cfg.Sentry.DSN)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"*"}, cfg.GetAllowedOrigins())
}

func TestLoad_RequiresSessionSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SHORTLINK_SESSION_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSessionSecret)
}

func TestLoad_RejectsShortSessionSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SHORTLINK_SESSION_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 16 bytes")
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SHORTLINK_SESSION_SECRET", testSecret)
	t.Setenv("SHORTLINK_SERVER_PORT", "9090")
	t.Setenv("SHORTLINK_DATABASE_DRIVER", "postgres")
	t.Setenv("SHORTLINK_CACHE_DRIVER", "redis")
	t.Setenv("SHORTLINK_APP_ENVIRONMENT", "production")
	t.Setenv("SHORTLINK_APP_BASE_URL", "https://sho.rt/")
	t.Setenv("SHORTLINK_APP_MAX_ATTEMPTS", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, 25, cfg.App.MaxAttempts)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://sho.rt", cfg.GetBaseURL())
	assert.Equal(t, []string{"https://sho.rt"}, cfg.GetAllowedOrigins())
}

func TestLoad_DerivedBaseURLInProduction(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SHORTLINK_SESSION_SECRET", testSecret)
	t.Setenv("SHORTLINK_APP_ENVIRONMENT", "production")
	t.Setenv("SHORTLINK_SERVER_HOST", "sho.rt")
	t.Setenv("SHORTLINK_SERVER_PORT", "443")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://sho.rt:443", cfg.GetBaseURL())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	yaml := []byte(`
server:
  port: "7070"
database:
  path: /tmp/links.db
app:
  short_code_length: 8
  allowed_origins:
    - https://a.test
    - https://b.test
session:
  secret: from-the-config-file
cache:
  driver: memory
  ttl: 60
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), yaml, 0o600))

	chdir(t, dir)
	t.Setenv("SHORTLINK_SERVER_PORT", "7171")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7171", cfg.Server.Port, "env wins over file")
	assert.Equal(t, "/tmp/links.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.App.ShortCodeLength)
	assert.Equal(t, "from-the-config-file", cfg.Session.Secret)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.GetAllowedOrigins())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SHORTLINK_LOG_LEVEL=debug\n"), 0o600))

	chdir(t, dir)
	t.Setenv("SHORTLINK_SESSION_SECRET", testSecret)
	t.Cleanup(func() { os.Unsetenv("SHORTLINK_LOG_LEVEL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: "sqlite"},
			App:      AppConfig{MaxAttempts: 10},
			Session:  SessionConfig{Secret: testSecret},
			Cache:    CacheConfig{Driver: "none"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown database driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "sqlite3 alias", mutate: func(c *Config) { c.Database.Driver = "sqlite3" }},
		{name: "postgresql alias", mutate: func(c *Config) { c.Database.Driver = "postgresql" }},
		{name: "pgx alias", mutate: func(c *Config) { c.Database.Driver = "pgx" }},
		{name: "unknown cache driver", mutate: func(c *Config) { c.Cache.Driver = "memcached" }, wantErr: true},
		{name: "empty cache driver", mutate: func(c *Config) { c.Cache.Driver = "" }},
		{name: "zero attempts", mutate: func(c *Config) { c.App.MaxAttempts = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores the previous one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
