// Package config loads runtime settings from the environment, with optional
// .env overlay for development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the wordweave server.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// DBDriver is "sqlite3" or "postgres".
	DBDriver string
	// DBDSN is the driver-specific data source name. For sqlite3 it is the
	// database file path.
	DBDSN string

	// OpenAIAPIKey enables the external generator; empty means fallback-only.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	// GenerationMaxTokens bounds the cost of one external call.
	GenerationMaxTokens int64
	// GenerationTimeout bounds the latency of one external call.
	GenerationTimeout time.Duration

	// VolatileTTL and VolatileMaxEntries bound the in-process cache layer.
	VolatileTTL        time.Duration
	VolatileMaxEntries int64
	// DurableMaxAge expires durable entries not accessed for this long.
	DurableMaxAge time.Duration
	// DurableMaxEntries caps the durable cache size.
	DurableMaxEntries int
	// SweepEveryNInserts throttles the insert-triggered eviction sweep.
	SweepEveryNInserts int
	// SweepInterval schedules the periodic eviction sweep.
	SweepInterval time.Duration
}

// Load builds a Config from the environment, applying development defaults
// for anything unset. A .env file in the working directory is honored.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:     getEnv("WORDWEAVE_ADDR", ":8080"),
		DBDriver: getEnv("WORDWEAVE_DB_DRIVER", "sqlite3"),
		DBDSN:    getEnv("WORDWEAVE_DB_DSN", "data/wordweave.db"),

		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GenerationMaxTokens: getEnvInt64("GENERATION_MAX_TOKENS", 400),
		GenerationTimeout:   getEnvDuration("GENERATION_TIMEOUT", 20*time.Second),

		VolatileTTL:        getEnvDuration("CACHE_VOLATILE_TTL", 10*time.Minute),
		VolatileMaxEntries: getEnvInt64("CACHE_VOLATILE_MAX_ENTRIES", 1024),
		DurableMaxAge:      getEnvDuration("CACHE_DURABLE_MAX_AGE", 30*24*time.Hour),
		DurableMaxEntries:  int(getEnvInt64("CACHE_DURABLE_MAX_ENTRIES", 10000)),
		SweepEveryNInserts: int(getEnvInt64("CACHE_SWEEP_EVERY_N_INSERTS", 32)),
		SweepInterval:      getEnvDuration("CACHE_SWEEP_INTERVAL", time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
