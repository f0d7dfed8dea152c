package vector

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds connection settings for the vector corpus service. An empty
// base URL disables the service entirely; ingestion then falls back to
// local context extraction.
type Config struct {
	BaseURL      string `toml:"base_url"`
	APIKey       string `toml:"api_key"`
	ChunkSize    int    `toml:"chunk_size"`
	ChunkOverlap int    `toml:"chunk_overlap"`
	Timeout      string `toml:"timeout"`

	timeout time.Duration
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL      string
	APIKey       string
	ChunkSize    string
	ChunkOverlap string
	Timeout      string
}

// Enabled reports whether the service is configured.
func (c *Config) Enabled() bool {
	return c.BaseURL != ""
}

// TimeoutDuration returns the parsed request timeout.
func (c *Config) TimeoutDuration() time.Duration {
	return c.timeout
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-empty fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.ChunkSize > 0 {
		c.ChunkSize = overlay.ChunkSize
	}
	if overlay.ChunkOverlap > 0 {
		c.ChunkOverlap = overlay.ChunkOverlap
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 512
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = 100
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.ChunkSize != "" {
		if v := os.Getenv(env.ChunkSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.ChunkSize = n
			}
		}
	}
	if env.ChunkOverlap != "" {
		if v := os.Getenv(env.ChunkOverlap); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.ChunkOverlap = n
			}
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid vector timeout %q: %w", c.Timeout, err)
	}
	c.timeout = timeout

	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap %d must be less than chunk_size %d", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}
