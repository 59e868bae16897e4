package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultIngestWorkers = 4
	defaultMaxConns      = 20
)

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL         string
	Port          string
	LogLevel      string
	IngestWorkers int
	MaxConns      int32
	AdminToken    string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first; values already set in
// the shell are never overwritten by it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("PG_URL environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = defaultLogLevel
	}

	workers, err := intFromEnv("INGEST_WORKERS", defaultIngestWorkers)
	if err != nil {
		return nil, err
	}

	maxConns, err := intFromEnv("PG_MAX_CONNS", defaultMaxConns)
	if err != nil {
		return nil, err
	}

	return &Config{
		PGURL:         pgURL,
		Port:          port,
		LogLevel:      logLevel,
		IngestWorkers: workers,
		MaxConns:      int32(maxConns),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
	}, nil
}

func intFromEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}
