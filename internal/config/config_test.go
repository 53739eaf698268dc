package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"DATABASE_URL", "PORT", "LOG_LEVEL", "LOG_FORMAT", "POSTERR_TIMEZONE",
	"CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "USER_CACHE_SIZE", "SHUTDOWN_TIMEOUT",
}

// clearEnv blanks every key so the host environment cannot leak into a test
func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid default config", mutate: func(*Config) {}},
		{name: "missing database url", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: ErrMissingDatabaseURL},
		{name: "non-numeric port", mutate: func(c *Config) { c.Port = "http" }, wantErr: ErrInvalidPort},
		{name: "port out of range", mutate: func(c *Config) { c.Port = "70000" }, wantErr: ErrInvalidPort},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: ErrInvalidLogLevel},
		{name: "unknown log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: ErrInvalidLogFormat},
		{name: "unknown timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: ErrInvalidTimezone},
		{name: "zero rps", mutate: func(c *Config) { c.RateLimitRPS = 0 }, wantErr: ErrInvalidRateLimit},
		{name: "zero burst", mutate: func(c *Config) { c.RateLimitBurst = 0 }, wantErr: ErrInvalidRateLimit},
		{name: "zero cache", mutate: func(c *Config) { c.UserCacheSize = 0 }, wantErr: ErrInvalidCacheSize},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.ShutdownTimeout = 0 }, wantErr: ErrInvalidShutdownTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "want %v, got %v", tt.wantErr, err)
		})
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/posterr")
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("POSTERR_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("USER_CACHE_SIZE", "64")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/posterr", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, 64, cfg.UserCacheSize)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_MalformedValues(t *testing.T) {
	for _, key := range []string{"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "USER_CACHE_SIZE", "SHUTDOWN_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, "lots")

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set, even to ""
	require.NoError(t, os.Unsetenv("PORT"))
	t.Cleanup(func() { _ = os.Unsetenv("PORT") })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=4321\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "4321", cfg.Port)
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_FORMAT", "yaml")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, ErrInvalidLogFormat)
}

func TestLocation(t *testing.T) {
	loc, err := Config{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = Config{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}
