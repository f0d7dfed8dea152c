package ai

import (
	"fmt"
	"os"
)

// Config holds connection settings for OpenAI-compatible chat and embedding
// endpoints. Empty hosts disable the corresponding service.
type Config struct {
	ChatHost       string `toml:"chat_host"`
	ChatModel      string `toml:"chat_model"`
	EmbeddingHost  string `toml:"embedding_host"`
	EmbeddingModel string `toml:"embedding_model"`
	Token          string `toml:"token"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ChatHost       string
	ChatModel      string
	EmbeddingHost  string
	EmbeddingModel string
	Token          string
}

// ChatEnabled reports whether the summarization backend is configured.
func (c *Config) ChatEnabled() bool {
	return c.ChatHost != ""
}

// EmbeddingEnabled reports whether the embedding backend is configured.
func (c *Config) EmbeddingEnabled() bool {
	return c.EmbeddingHost != ""
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
	if overlay.ChatHost != "" {
		c.ChatHost = overlay.ChatHost
	}
	if overlay.ChatModel != "" {
		c.ChatModel = overlay.ChatModel
	}
	if overlay.EmbeddingHost != "" {
		c.EmbeddingHost = overlay.EmbeddingHost
	}
	if overlay.EmbeddingModel != "" {
		c.EmbeddingModel = overlay.EmbeddingModel
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
}

func (c *Config) loadDefaults() {
	if c.ChatModel == "" {
		c.ChatModel = "gpt-4o-mini"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "text-embedding-3-small"
	}
	if c.Token == "" {
		// Local OpenAI-compatible services accept any token.
		c.Token = "none"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ChatHost != "" {
		if v := os.Getenv(env.ChatHost); v != "" {
			c.ChatHost = v
		}
	}
	if env.ChatModel != "" {
		if v := os.Getenv(env.ChatModel); v != "" {
			c.ChatModel = v
		}
	}
	if env.EmbeddingHost != "" {
		if v := os.Getenv(env.EmbeddingHost); v != "" {
			c.EmbeddingHost = v
		}
	}
	if env.EmbeddingModel != "" {
		if v := os.Getenv(env.EmbeddingModel); v != "" {
			c.EmbeddingModel = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
}

func (c *Config) validate() error {
	if c.ChatEnabled() && c.ChatModel == "" {
		return fmt.Errorf("chat_model required when chat_host is set")
	}
	if c.EmbeddingEnabled() && c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model required when embedding_host is set")
	}
	return nil
}
