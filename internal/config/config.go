package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the prompt service.
// Environment variables are parsed from the PROMPTLAB_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort     int   `envconfig:"HTTP_PORT" default:"8080"`
	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Health and lifecycle
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"15"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
	ShutdownTimeoutSeconds    int `envconfig:"SHUTDOWN_TIMEOUT_SECONDS" default:"10"`
}

// ResolveDefaults validates the loaded values.
func (c *Config) ResolveDefaults() error {
	switch c.Environment {
	case EnvDevelopment, EnvTesting, EnvProduction:
	case "":
		c.Environment = EnvDevelopment
	default:
		return fmt.Errorf("unsupported ENVIRONMENT: %s", c.Environment)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.HealthIntervalSeconds <= 0 || c.HealthProbeTimeoutSeconds <= 0 || c.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("health and shutdown timings must be positive")
	}
	return nil
}

// New creates a new Config by parsing environment variables
// Example: PROMPTLAB_HTTP_PORT, PROMPTLAB_LOG_LEVEL
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PROMPTLAB", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("log_level", cfg.LogLevel).
		Int64("max_body_bytes", cfg.MaxBodyBytes).
		Int("health_interval_seconds", cfg.HealthIntervalSeconds).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		MaxBodyBytes:              1 << 20,
		LogLevel:                  "debug",
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
		ShutdownTimeoutSeconds:    2,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

func (c *Config) HealthProbeTimeout() time.Duration {
	return time.Duration(c.HealthProbeTimeoutSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
