package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Load reads .env (when present) into the process environment and parses Config from it.
// It reports whether a .env file was found.
func Load() (*Config, bool, error) {
	// load .env into os.Environ
	dotenv := godotenv.Load() == nil

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, dotenv, fmt.Errorf("parse config: %w", err)
	}
	return cfg, dotenv, nil
}
