package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Restaurant backend
	BackendURL        string        `env:"BACKEND_URL"         envDefault:"https://restaurante-backend-q43k.onrender.com"`
	BackendTimeout    time.Duration `env:"BACKEND_TIMEOUT"     envDefault:"15s"`
	BackendForceHTTPS bool          `env:"BACKEND_FORCE_HTTPS" envDefault:"false"`
	BackendMaxRetries int           `env:"BACKEND_MAX_RETRIES" envDefault:"3"`

	// Redis (optional - leave empty to disable the menu cache and idempotency keys)
	RedisURL       string        `env:"REDIS_URL"       envDefault:""`
	CacheTTL       time.Duration `env:"CACHE_TTL"       envDefault:"60s"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"60s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Calendar bucketing time zone, an IANA name or "Local"
	Timezone string `env:"TIMEZONE" envDefault:"Local"`

	// Session gate (disabled by default)
	AuthEnabled       bool          `env:"AUTH_ENABLED"        envDefault:"false"`
	SessionSecret     string        `env:"SESSION_SECRET"      envDefault:""`
	SessionTTL        time.Duration `env:"SESSION_TTL"         envDefault:"12h"`
	AdminEmails       []string      `env:"ADMIN_EMAILS"        envSeparator:","`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH" envDefault:""`
	LoginRate         float64       `env:"LOGIN_RATE"          envDefault:"0.2"`
	LoginBurst        int           `env:"LOGIN_BURST"         envDefault:"5"`
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first; variables already set win over it.
func Load() (*Config, error) {
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

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BackendURL) == "" {
		return errors.New("BACKEND_URL is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.AuthEnabled {
		if c.SessionSecret == "" {
			return errors.New("SESSION_SECRET is required when AUTH_ENABLED=true")
		}
		if c.AdminPasswordHash == "" || len(c.AdminEmails) == 0 {
			return errors.New("ADMIN_EMAILS and ADMIN_PASSWORD_HASH are required when AUTH_ENABLED=true")
		}
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
