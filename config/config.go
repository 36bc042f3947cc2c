package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // CALENDAR_TIMEZONE must resolve in minimal containers

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port            string
	HTTPBindAddr    string
	Environment     string
	LoggingConfig   LoggingConfig
	PostgresConfig  PostgresConfig
	RedisConfig     RedisConfig
	CalendarConfig  CalendarConfig
	CacheConfig     CacheConfig
	WarmerConfig    WarmerConfig
	AdminAuthConfig AdminAuthConfig
	InitSchema      bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// CalendarConfig decides which calendar "today" is taken from when a
// request does not carry an explicit reference date.
type CalendarConfig struct {
	TimezoneName string
	Location     *time.Location
}

// CacheConfig holds plan cache settings
type CacheConfig struct {
	Prefix     string
	PlanTTL    time.Duration
	CatalogTTL time.Duration
	Enabled    bool
}

// WarmerConfig holds the cache warmer schedule and its leader lock
type WarmerConfig struct {
	Enabled   bool
	Schedule  string
	LockKey   string
	LockTTL   time.Duration
	LockRenew time.Duration
}

// AdminAuthConfig holds admin authentication configuration
type AdminAuthConfig struct {
	Enabled  bool
	Username string
	Password string
	Token    string // Alternative: Bearer token auth
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	initSchema, _ := strconv.ParseBool(getEnv("INIT_SCHEMA", "true"))

	tzName := getEnv("CALENDAR_TIMEZONE", "Europe/Paris")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid CALENDAR_TIMEZONE %q: %w", tzName, err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cacheEnabled, _ := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	warmerEnabled, _ := strconv.ParseBool(getEnv("WARMER_ENABLED", "true"))
	adminAuthEnabled, _ := strconv.ParseBool(getEnv("ADMIN_AUTH_ENABLED", "false"))

	return &Config{
		Port:         getEnv("PORT", "8080"),
		HTTPBindAddr: getEnv("HTTP_BIND_ADDR", ""),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LoggingConfig: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		PostgresConfig: PostgresConfig{
			Host:     getEnv("DB_HOST", "postgres"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "trips"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "trips"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		RedisConfig: RedisConfig{
			Host:     getEnv("REDIS_HOST", "redis"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		CalendarConfig: CalendarConfig{
			TimezoneName: tzName,
			Location:     loc,
		},
		CacheConfig: CacheConfig{
			Prefix:     getEnv("CACHE_PREFIX", "trips"),
			PlanTTL:    getDuration("CACHE_TTL", 6*time.Hour),
			CatalogTTL: getDuration("CACHE_CATALOG_TTL", 24*time.Hour),
			Enabled:    cacheEnabled,
		},
		WarmerConfig: WarmerConfig{
			Enabled:   warmerEnabled,
			Schedule:  getEnv("WARMER_SCHEDULE", "5 0 * * *"),
			LockKey:   getEnv("SCHEDULER_LOCK_KEY", "warmer:leader"),
			LockTTL:   getDuration("SCHEDULER_LOCK_TTL", 30*time.Second),
			LockRenew: getDuration("SCHEDULER_LOCK_RENEW", 10*time.Second),
		},
		AdminAuthConfig: AdminAuthConfig{
			Enabled:  adminAuthEnabled,
			Username: getEnv("ADMIN_AUTH_USERNAME", ""),
			Password: getEnv("ADMIN_AUTH_PASSWORD", ""),
			Token:    getEnv("ADMIN_AUTH_TOKEN", ""),
		},
		InitSchema: initSchema,
	}, nil
}

// LoadTestConfig loads test configuration
func LoadTestConfig() *Config {
	return &Config{
		PostgresConfig: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "trips"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME_TEST", "trips_test"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisConfig: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		CalendarConfig: CalendarConfig{
			TimezoneName: "UTC",
			Location:     time.UTC,
		},
		CacheConfig: CacheConfig{
			Prefix:     "trips_test",
			PlanTTL:    time.Hour,
			CatalogTTL: time.Hour,
			Enabled:    true,
		},
		Environment: "test",
	}
}

// TestConfig returns a default test configuration
func TestConfig() *Config {
	cfg := LoadTestConfig()
	cfg.WarmerConfig.Enabled = false
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value) // Trim whitespace before returning
}

// getDuration parses a duration variable, falling back to defaultValue when unset or malformed
func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
