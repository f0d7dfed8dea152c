package objectstore

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds raw store connection parameters.
type Config struct {
	Bucket          string `toml:"bucket"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	UsePathStyle    bool   `toml:"use_path_style"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Bucket          string
	Region          string
	Endpoint        string
	UsePathStyle    string
	AccessKeyID     string
	SecretAccessKey string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Bucket != "" {
		c.Bucket = overlay.Bucket
	}
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.UsePathStyle {
		c.UsePathStyle = true
	}
	if overlay.AccessKeyID != "" {
		c.AccessKeyID = overlay.AccessKeyID
	}
	if overlay.SecretAccessKey != "" {
		c.SecretAccessKey = overlay.SecretAccessKey
	}
}

func (c *Config) loadDefaults() {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Bucket != "" {
		if v := os.Getenv(env.Bucket); v != "" {
			c.Bucket = v
		}
	}
	if env.Region != "" {
		if v := os.Getenv(env.Region); v != "" {
			c.Region = v
		}
	}
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.UsePathStyle != "" {
		if v := os.Getenv(env.UsePathStyle); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.UsePathStyle = b
			}
		}
	}
	if env.AccessKeyID != "" {
		if v := os.Getenv(env.AccessKeyID); v != "" {
			c.AccessKeyID = v
		}
	}
	if env.SecretAccessKey != "" {
		if v := os.Getenv(env.SecretAccessKey); v != "" {
			c.SecretAccessKey = v
		}
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket required")
	}
	return nil
}
