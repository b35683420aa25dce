package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr            string
	DatabaseURL     string
	Environment     string
	MigrationsDir   string
	RunMigrations   bool
	StatementDir    string
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	MetricsEnabled  bool
	TableclothRate  float64
}

func Load() Config {
	return Config{
		Addr:            getEnv("APP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		Environment:     getEnv("APP_ENV", "development"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		RunMigrations:   getEnvBool("RUN_MIGRATIONS", true),
		StatementDir:    getEnv("STATEMENT_DIR", "storage/statements"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		TableclothRate:  getEnvFloat("TABLECLOTH_RATE", 0),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
