// Package config provides environment-driven configuration for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the server configuration.
type Config struct {
	Port        int
	DatabaseURL string
}

// Load reads the server configuration from environment variables.
// DATABASE_URL is required; PORT defaults to 8080.
func Load() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		parsed, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		port = parsed
	}

	cfg := &Config{
		Port:        port,
		DatabaseURL: databaseURL,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}
	return nil
}
