package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Environment represents different deployment environments.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the coordination core.
// Environment variables are parsed from the RELIEF_ prefix.
type Config struct {
	// Build target selects the high-level environment: server | local
	BuildTarget string `envconfig:"BUILD_TARGET" default:"server"`

	// StoreDriver picks the record store backend: sqlite | memory.
	// "auto" derives from BuildTarget.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP configuration (health probe surface only)
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// SQLite configuration
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/relief.db"`

	// Cache configuration
	CachePath         string `envconfig:"CACHE_PATH" default:"data/cache"`
	CacheInMemory     bool   `envconfig:"CACHE_IN_MEMORY" default:"false"`
	CacheSweepSeconds int    `envconfig:"CACHE_SWEEP_SECONDS" default:"600"`

	// Health monitoring
	HealthProbeSeconds        int `envconfig:"HEALTH_PROBE_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates BuildTarget and derives StoreDriver when set to
// "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultStore string

	switch c.BuildTarget {
	case "server":
		defaultStore = "sqlite"
	case "local":
		// Local runs keep everything in process memory, store and cache.
		defaultStore = "memory"
		c.CacheInMemory = true
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.StoreDriver == "" || c.StoreDriver == "auto" {
		c.StoreDriver = defaultStore
	}

	allowed := map[string]bool{"sqlite": true, "memory": true}
	if !allowed[c.StoreDriver] {
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	return nil
}

// New creates a Config by parsing RELIEF_-prefixed environment variables.
// Example: RELIEF_STORE_DRIVER, RELIEF_HTTP_PORT.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("RELIEF", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsTesting returns true if the environment is set to testing.
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
