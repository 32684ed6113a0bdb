// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token services) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// minSecretKeyLength is the shortest accepted HMAC secret.
const minSecretKeyLength = 16

// # Configuration Schema

// Config holds all runtime configuration for the MADR API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// PublicBaseURL prefixes the links embedded in verification and recovery emails.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://127.0.0.1:8080"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis), holds the consumed action-token ledger
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing. SecretKey signs session tokens directly and seeds the
	// purpose-scoped keys of action tokens.
	SecretKey      string        `env:"SECRET_KEY,required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"60m"`
	ActionTokenTTL time.Duration `env:"ACTION_TOKEN_TTL" envDefault:"24h"`

	// First superuser, created at startup when the email is set
	FirstSuperuserUsername string `env:"FIRST_SUPERUSER_USERNAME" envDefault:"admin"`
	FirstSuperuserEmail    string `env:"FIRST_SUPERUSER_EMAIL"`
	FirstSuperuserPassword string `env:"FIRST_SUPERUSER_PASSWORD"`

	// Google login (disabled unless the client id is set)
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://127.0.0.1:8080/auth/callback/google"`

	// Outgoing email
	EmailFrom string `env:"EMAIL_FROM" envDefault:"no-reply@madr.local"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if len(c.SecretKey) < minSecretKeyLength {
		return fmt.Errorf("config: SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}

	if c.AccessTokenTTL <= 0 {
		return errors.New("config: ACCESS_TOKEN_TTL must be positive")
	}

	// Emailed links must outlive the session that requested them.
	if c.ActionTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("config: ACTION_TOKEN_TTL (%s) must be longer than ACCESS_TOKEN_TTL (%s)",
			c.ActionTokenTTL, c.AccessTokenTTL)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GoogleEnabled reports whether Google login is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// AllowedOrigins returns the CORS origins accepted outside development.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}
