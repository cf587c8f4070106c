package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// EngineConfig tunes the adherence calculation engine. UTCOffsetMinutes
// fixes the reporting frame used for day boundaries and schedule
// projection; it is deliberately explicit so tests can exercise multiple
// offsets.
type EngineConfig struct {
	UTCOffsetMinutes      int
	BatchSize             int
	BreakToleranceMinutes int
	RecomputeInterval     time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "adherence"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Engine configuration
	utcOffset, err := strconv.Atoi(getEnv("ENGINE_UTC_OFFSET_MINUTES", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_UTC_OFFSET_MINUTES: %w", err)
	}
	batchSize, err := strconv.Atoi(getEnv("ENGINE_BATCH_SIZE", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_BATCH_SIZE: %w", err)
	}
	breakTolerance, err := strconv.Atoi(getEnv("ENGINE_BREAK_TOLERANCE_MINUTES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_BREAK_TOLERANCE_MINUTES: %w", err)
	}
	recomputeInterval, err := time.ParseDuration(getEnv("ENGINE_RECOMPUTE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_RECOMPUTE_INTERVAL: %w", err)
	}

	config.Engine = EngineConfig{
		UTCOffsetMinutes:      utcOffset,
		BatchSize:             batchSize,
		BreakToleranceMinutes: breakTolerance,
		RecomputeInterval:     recomputeInterval,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Engine.BatchSize < 1 {
		return fmt.Errorf("ENGINE_BATCH_SIZE must be at least 1")
	}
	if c.Engine.BreakToleranceMinutes < 0 {
		return fmt.Errorf("ENGINE_BREAK_TOLERANCE_MINUTES must not be negative")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
