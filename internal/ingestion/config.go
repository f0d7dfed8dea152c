package ingestion

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds pipeline tuning knobs.
type Config struct {
	// ExcerptChars bounds the text excerpt extracted for metadata.
	ExcerptChars int `toml:"excerpt_chars"`
	// PromptChars bounds how much of the excerpt enters the prompt.
	PromptChars int `toml:"prompt_chars"`
	// ChunkSize and ChunkOverlap tune the local context splitter.
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
	// CorpusMaxRetries bounds corpus resolution attempts per request.
	CorpusMaxRetries int `toml:"corpus_max_retries"`
	// MetadataTimeout bounds one generative metadata call.
	MetadataTimeout string `toml:"metadata_timeout"`
	// BatchConcurrency caps parallel documents in a batch request.
	BatchConcurrency int `toml:"batch_concurrency"`

	metadataTimeout time.Duration
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BatchConcurrency string
	MetadataTimeout  string
}

// MetadataTimeoutDuration returns the parsed metadata call timeout.
func (c *Config) MetadataTimeoutDuration() time.Duration {
	return c.metadataTimeout
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
	if overlay.ExcerptChars > 0 {
		c.ExcerptChars = overlay.ExcerptChars
	}
	if overlay.PromptChars > 0 {
		c.PromptChars = overlay.PromptChars
	}
	if overlay.ChunkSize > 0 {
		c.ChunkSize = overlay.ChunkSize
	}
	if overlay.ChunkOverlap > 0 {
		c.ChunkOverlap = overlay.ChunkOverlap
	}
	if overlay.CorpusMaxRetries > 0 {
		c.CorpusMaxRetries = overlay.CorpusMaxRetries
	}
	if overlay.MetadataTimeout != "" {
		c.MetadataTimeout = overlay.MetadataTimeout
	}
	if overlay.BatchConcurrency > 0 {
		c.BatchConcurrency = overlay.BatchConcurrency
	}
}

func (c *Config) loadDefaults() {
	if c.ExcerptChars <= 0 {
		c.ExcerptChars = 5000
	}
	if c.PromptChars <= 0 {
		c.PromptChars = 2000
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 1500
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = 200
	}
	if c.CorpusMaxRetries <= 0 {
		c.CorpusMaxRetries = 3
	}
	if c.MetadataTimeout == "" {
		c.MetadataTimeout = "30s"
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = 4
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BatchConcurrency != "" {
		if v := os.Getenv(env.BatchConcurrency); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.BatchConcurrency = n
			}
		}
	}
	if env.MetadataTimeout != "" {
		if v := os.Getenv(env.MetadataTimeout); v != "" {
			c.MetadataTimeout = v
		}
	}
}

func (c *Config) validate() error {
	timeout, err := time.ParseDuration(c.MetadataTimeout)
	if err != nil {
		return fmt.Errorf("invalid metadata_timeout %q: %w", c.MetadataTimeout, err)
	}
	c.metadataTimeout = timeout

	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap %d must be less than chunk_size %d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.PromptChars > c.ExcerptChars {
		c.PromptChars = c.ExcerptChars
	}
	return nil
}
