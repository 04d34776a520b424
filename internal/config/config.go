package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; with no environment set the process
// runs the built-in demo batch once with no HTTP server and no database.
type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Status server. An empty HTTPPort disables it.
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database. When DatabaseURL is set the batch is loaded from Postgres
	// instead of the built-in demo batch.
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	BatchLimit  int

	// Producer pacing: simulated work between pushes. Zero disables it.
	ProduceInterval time.Duration

	// Consumer fallback wait when a drain comes back empty.
	ConsumerIdleInterval time.Duration

	// Optional webhook the consumer posts each assignment to.
	ProcessorWebhookURL string
	ProcessorTimeout    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		HTTPPort:        getEnv("HTTP_PORT", ""),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 4)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 1)),
		BatchLimit:  getInt("BATCH_LIMIT", 1000),

		ProduceInterval:      getDuration("PRODUCE_INTERVAL", 0),
		ConsumerIdleInterval: getDuration("CONSUMER_IDLE_INTERVAL", 250*time.Millisecond),

		ProcessorWebhookURL: getEnv("PROCESSOR_WEBHOOK_URL", ""),
		ProcessorTimeout:    getDuration("PROCESSOR_TIMEOUT", 5*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that would stall or misconfigure a run.
func (c *Config) Validate() error {
	var errs []error

	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat))
	}
	if c.ProduceInterval < 0 {
		errs = append(errs, errors.New("PRODUCE_INTERVAL must not be negative"))
	}
	if c.ConsumerIdleInterval <= 0 {
		errs = append(errs, errors.New("CONSUMER_IDLE_INTERVAL must be positive"))
	}
	if c.ProcessorTimeout <= 0 {
		errs = append(errs, errors.New("PROCESSOR_TIMEOUT must be positive"))
	}
	if c.BatchLimit <= 0 {
		errs = append(errs, errors.New("BATCH_LIMIT must be positive"))
	}
	if c.DBMinConns > c.DBMaxConns {
		errs = append(errs, errors.New("DB_MIN_CONNS must not exceed DB_MAX_CONNS"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
