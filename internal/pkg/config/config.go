package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ServerAddr      string        `env:"INTEGRATOR_ADDR" envDefault:"127.0.0.1:8899"`
	AdminAddr       string        `env:"INTEGRATOR_ADMIN_ADDR" envDefault:"127.0.0.1:9091"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodySize     int64         `env:"MAX_BODY_SIZE_BYTES" envDefault:"2097152"` // 2MB

	StorageDriver     string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	StorageDSN        string `env:"STORAGE_DSN" envDefault:"integrator_storage.db"`
	EnforceUniquePair bool   `env:"ENFORCE_UNIQUE_PAIR" envDefault:"true"`

	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"0"` // 0 disables limiting
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.StorageDSN == "" {
		return fmt.Errorf("STORAGE_DSN is required")
	}
	if c.MaxBodySize <= 0 {
		return fmt.Errorf("MAX_BODY_SIZE_BYTES must be positive, got %d", c.MaxBodySize)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}
	return nil
}
