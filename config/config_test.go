package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function which reads from environment variables.
func TestLoad(t *testing.T) {
	// Clear existing env vars that might interfere
	os.Clearenv()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, "info", cfg.LoggingConfig.Level)
		assert.Equal(t, "json", cfg.LoggingConfig.Format)
		assert.Equal(t, "postgres", cfg.PostgresConfig.Host)
		assert.Equal(t, "5432", cfg.PostgresConfig.Port)
		assert.Equal(t, "trips", cfg.PostgresConfig.User)
		assert.Equal(t, "trips", cfg.PostgresConfig.DBName)
		assert.Equal(t, "require", cfg.PostgresConfig.SSLMode)
		assert.Equal(t, "redis:6379", cfg.RedisConfig.Addr())
		assert.Equal(t, 0, cfg.RedisConfig.DB)
		assert.Equal(t, "Europe/Paris", cfg.CalendarConfig.TimezoneName)
		require.NotNil(t, cfg.CalendarConfig.Location)
		assert.Equal(t, "Europe/Paris", cfg.CalendarConfig.Location.String())
		assert.Equal(t, 6*time.Hour, cfg.CacheConfig.PlanTTL)
		assert.Equal(t, 24*time.Hour, cfg.CacheConfig.CatalogTTL)
		assert.True(t, cfg.CacheConfig.Enabled)
		assert.True(t, cfg.WarmerConfig.Enabled)
		assert.Equal(t, "5 0 * * *", cfg.WarmerConfig.Schedule)
		assert.Equal(t, 30*time.Second, cfg.WarmerConfig.LockTTL)
		assert.Equal(t, 10*time.Second, cfg.WarmerConfig.LockRenew)
		assert.False(t, cfg.AdminAuthConfig.Enabled)
		assert.True(t, cfg.InitSchema)
	})

	t.Run("environment variable override", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DB_HOST", "db.example.com")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("DB_SSLMODE", "disable")
		t.Setenv("REDIS_HOST", "cache.example.com")
		t.Setenv("REDIS_DB", "2")
		t.Setenv("CALENDAR_TIMEZONE", " America/New_York ")
		t.Setenv("CACHE_TTL", "90m")
		t.Setenv("WARMER_ENABLED", "false")
		t.Setenv("WARMER_SCHEDULE", "@hourly")
		t.Setenv("ADMIN_AUTH_ENABLED", "true")
		t.Setenv("ADMIN_AUTH_TOKEN", "tok")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "production", cfg.Environment)
		assert.Equal(t, "db.example.com", cfg.PostgresConfig.Host)
		assert.Equal(t, "secret", cfg.PostgresConfig.Password)
		assert.Contains(t, cfg.PostgresConfig.DSN(), "sslmode=disable")
		assert.Equal(t, "cache.example.com:6379", cfg.RedisConfig.Addr())
		assert.Equal(t, 2, cfg.RedisConfig.DB)
		assert.Equal(t, "America/New_York", cfg.CalendarConfig.Location.String())
		assert.Equal(t, 90*time.Minute, cfg.CacheConfig.PlanTTL)
		assert.False(t, cfg.WarmerConfig.Enabled)
		assert.Equal(t, "@hourly", cfg.WarmerConfig.Schedule)
		assert.True(t, cfg.AdminAuthConfig.Enabled)
		assert.Equal(t, "tok", cfg.AdminAuthConfig.Token)
	})

	t.Run("malformed duration falls back", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "soon")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 6*time.Hour, cfg.CacheConfig.PlanTTL)
	})

	t.Run("invalid timezone", func(t *testing.T) {
		t.Setenv("CALENDAR_TIMEZONE", "Mars/Olympus_Mons")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CALENDAR_TIMEZONE")
	})

	t.Run("invalid redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "first")

		_, err := Load()
		require.Error(t, err)
	})
}

// TestLoadTestConfig tests the LoadTestConfig helper function
func TestLoadTestConfig(t *testing.T) {
	cfg := LoadTestConfig()

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "localhost", cfg.PostgresConfig.Host)
	assert.Equal(t, "trips_test", cfg.PostgresConfig.DBName)
	assert.Equal(t, "disable", cfg.PostgresConfig.SSLMode)
	assert.Equal(t, "localhost:6379", cfg.RedisConfig.Addr())
	assert.Equal(t, time.UTC, cfg.CalendarConfig.Location)
}

// TestTestConfig tests the TestConfig helper function
func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	assert.Equal(t, "test", cfg.Environment)
	assert.False(t, cfg.WarmerConfig.Enabled)
}
