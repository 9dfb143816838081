// Package config handles configuration for the taskkeeper server:
// defaults, an optional .env file, environment variables, and command-line
// flags, applied in that order.
package config

import (
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// Config holds runtime settings for the taskkeeper server.
//
// SecretKey and DatabaseDSN have no defaults: a missing value is a fatal
// misconfiguration reported by Validate, not a per-request failure.
type Config struct {
	EndpointAddr          string        `env:"ADDRESS"`
	DatabaseDSN           string        `env:"DATABASE_URL"`
	SecretKey             string        `env:"JWT_SECRET"`
	TokenValidityDuration time.Duration `env:"JWT_EXPIRES_IN"`
	CORSAllowedOrigins    string        `env:"CORS_ALLOWED_ORIGINS"`
}

// LoadDefaults populates Config with development defaults. The signing secret
// and database DSN are deliberately left empty.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.TokenValidityDuration = 7 * 24 * time.Hour
	c.CORSAllowedOrigins = "*"
}

// Validate reports fatal misconfiguration.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return common.ErrMissingSecret
	}
	if c.DatabaseDSN == "" {
		return common.ErrMissingDSN
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional .env file, the environment, and finally command-line
// flags. The returned error is a startup fault; callers should abort.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadEnvFile()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
