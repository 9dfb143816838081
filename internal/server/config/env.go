package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/joho/godotenv"
)

// loadEnvFile loads variables from a .env file into the process environment.
// The path comes from the -e/-env-file flag, falling back to ".env". A
// missing file is not an error; already-set variables are never overridden.
func loadEnvFile() {
	path := flagx.EnvFileFlags()
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)
}

// parseEnv overlays environment variables onto cfg using the `env` struct
// tags. Unset variables leave the existing values untouched.
func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
