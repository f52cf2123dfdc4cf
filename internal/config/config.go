package config

import (
	"fmt"
	"net/url"

	"github.com/Netflix/go-env"
	portal "github.com/virtual-vgo/portal"
)

// Config for the vvgo command line tools. Flags override these values.
type Config struct {
	Environment string `env:"ENVIRONMENT,default=dev"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	APIOrigin   string `env:"VVGO_API_ORIGIN,default=https://vvgo.org"`
	APITarget   string `env:"VVGO_API_TARGET,default=/api/v1"`
	Token       string `env:"VVGO_TOKEN"`
	TokenFile   string `env:"VVGO_TOKEN_FILE"`
	Output      string `env:"VVGO_OUTPUT,default=table"`
	RateLimit   int    `env:"VVGO_RATE_LIMIT,default=0"`
	RateBurst   int    `env:"VVGO_RATE_BURST,default=1"`
}

func NewConfig() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks a config, including one modified by command line flags.
func Validate(cfg *Config) error {
	if !portal.ValidEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, staging, prod", cfg.Environment)
	}

	if !portal.ValidOutputFormats[cfg.Output] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: json, table", cfg.Output)
	}

	if cfg.APITarget == "" {
		return fmt.Errorf("VVGO_API_TARGET cannot be empty")
	}

	origin, err := url.Parse(cfg.APIOrigin)
	if err != nil {
		return fmt.Errorf("invalid VVGO_API_ORIGIN: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return fmt.Errorf("VVGO_API_ORIGIN must include a scheme and host, got '%s'", cfg.APIOrigin)
	}

	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", cfg.RateLimit)
	}
	if cfg.RateBurst < 1 {
		return fmt.Errorf("rate burst must be at least 1, got %d", cfg.RateBurst)
	}

	return nil
}
