package api

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds backend connection configuration.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:5000".
	BaseURL string

	// Timeout is the maximum duration for a single request. Default: 15s.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000",
		Timeout: 15 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if u := os.Getenv("DOST_API_URL"); u != "" {
		cfg.BaseURL = u
	}
	if t := os.Getenv("DOST_API_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// Validate checks that the base URL is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("DOST_API_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("DOST_API_URL must be http or https, got %q", c.BaseURL)
	}
	return nil
}
