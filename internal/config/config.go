// Package config loads application configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the api and worker binaries read from the
// environment. Cache TTL classes and the janitor interval are
// code-level constants, deliberately not configurable here.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Env         string `env:"ENV" envDefault:"development"`
}

// Load parses configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ValidateAPI checks the settings the api binary cannot run without.
func (c Config) ValidateAPI() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// ValidateWorker checks the settings the worker binary cannot run
// without. The worker needs redis for asynq on top of the database.
func (c Config) ValidateWorker() error {
	if err := c.ValidateAPI(); err != nil {
		return err
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}
