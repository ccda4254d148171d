// Package config reads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Port int

	Store     string
	DBPath    string
	RedisAddr string

	ActivityLogCapacity int

	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	OperatorName         string
	OperatorPasswordHash string
	JWTSecret            string
	JWTTTL               time.Duration

	SeedCSV       string
	DefaultLeader string
	DefaultPeriod string

	LogLevel  string
	LogFormat string
}

// AuthEnabled reports whether RPCs require a token.
func (c *Config) AuthEnabled() bool {
	return c.OperatorPasswordHash != ""
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Store:                getEnvOrDefault("STORE", StoreSQLite),
		DBPath:               getEnvOrDefault("DB_PATH", "./data/rollbook.db"),
		RedisAddr:            getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		OperatorName:         getEnvOrDefault("OPERATOR_NAME", "admin"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		SeedCSV:              os.Getenv("SEED_CSV"),
		DefaultLeader:        getEnvOrDefault("DEFAULT_LEADER", "Unknown"),
		DefaultPeriod:        getEnvOrDefault("DEFAULT_PERIOD", "JANUARY 2026 - APRIL 2026"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.Port, err = intEnv("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.ActivityLogCapacity, err = intEnv("ACTIVITY_LOG_CAPACITY", 50); err != nil {
		return nil, err
	}
	if cfg.ActivityLogCapacity < 1 {
		return nil, fmt.Errorf("ACTIVITY_LOG_CAPACITY must be positive, got %d", cfg.ActivityLogCapacity)
	}
	if cfg.GeminiTimeout, err = durationEnv("GEMINI_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = durationEnv("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	switch cfg.Store {
	case StoreSQLite, StoreRedis:
	default:
		return nil, fmt.Errorf("STORE must be %q or %q, got %q", StoreSQLite, StoreRedis, cfg.Store)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	if cfg.AuthEnabled() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required when OPERATOR_PASSWORD_HASH is set")
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
