package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	CatalogBaseURL string
	CatalogTimeout time.Duration
	LogLevel       string
	LogFormat      string
	RedisURL       string
	DatabaseURL    string
	MaxDBConns     int32
	// ProctorEngageDelay is how long a freshly loaded session waits before
	// requesting fullscreen. Fullscreen requests usually need a prior user
	// interaction, so the guard is engaged slightly late.
	ProctorEngageDelay time.Duration
	// ProctorReentryDelay is the debounce before re-requesting fullscreen
	// after the host reports the student left it.
	ProctorReentryDelay time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		CatalogBaseURL:      getEnv("CATALOG_BASE_URL", "http://localhost:8080/api"),
		CatalogTimeout:      time.Duration(getEnvInt("CATALOG_TIMEOUT_MS", 5000)) * time.Millisecond,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "pretty"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		MaxDBConns:          int32(getEnvInt("MAX_DB_CONNS", 8)),
		ProctorEngageDelay:  time.Duration(getEnvInt("PROCTOR_ENGAGE_DELAY_MS", 1000)) * time.Millisecond,
		ProctorReentryDelay: time.Duration(getEnvInt("PROCTOR_REENTRY_DELAY_MS", 500)) * time.Millisecond,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
