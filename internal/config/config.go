// Package config loads the root service configuration. A base config.toml
// is merged with an optional per-environment overlay, then SPOTLIGHT_*
// environment variables override individual fields.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/aganswers/spotlight/internal/ai"
	"github.com/aganswers/spotlight/internal/ingestion"
	"github.com/aganswers/spotlight/internal/vector"
	"github.com/aganswers/spotlight/pkg/database"
	"github.com/aganswers/spotlight/pkg/middleware"
	"github.com/aganswers/spotlight/pkg/objectstore"
	"github.com/aganswers/spotlight/pkg/storage"
)

// Config is the root service configuration.
type Config struct {
	Environment     string `toml:"environment"`
	Version         string `toml:"version"`
	ShutdownTimeout string `toml:"shutdown_timeout"`

	Server   ServerConfig          `toml:"server"`
	Database database.Config       `toml:"database"`
	RawStore objectstore.Config    `toml:"raw_store"`
	Staging  storage.Config        `toml:"staging"`
	Vector   vector.Config         `toml:"vector"`
	AI       ai.Config             `toml:"ai"`
	Ingest   ingestion.Config      `toml:"ingest"`
	CORS     middleware.CORSConfig `toml:"cors"`
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config file, merges the per-environment overlay when
// present, applies environment variable overrides, and validates the
// result. Missing files are tolerated; overrides and defaults may fully
// specify the config.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := readFile(path, cfg); err != nil {
		return nil, err
	}

	env := os.Getenv("SPOTLIGHT_ENV")
	if env == "" {
		env = cfg.Environment
	}
	if env != "" {
		overlay := &Config{}
		overlayPath := overlayPath(path, env)
		if err := readFile(overlayPath, overlay); err != nil {
			return nil, err
		}
		cfg.merge(overlay)
		cfg.Environment = env
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// overlayPath derives config.<env>.toml next to the base file.
func overlayPath(base, env string) string {
	ext := ".toml"
	stem := base
	if len(base) > len(ext) && base[len(base)-len(ext):] == ext {
		stem = base[:len(base)-len(ext)]
	}
	return fmt.Sprintf("%s.%s%s", stem, env, ext)
}

func (c *Config) merge(overlay *Config) {
	if overlay.Environment != "" {
		c.Environment = overlay.Environment
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}

	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.RawStore.Merge(&overlay.RawStore)
	c.Staging.Merge(&overlay.Staging)
	c.Vector.Merge(&overlay.Vector)
	c.AI.Merge(&overlay.AI)
	c.Ingest.Merge(&overlay.Ingest)
	c.CORS.Merge(&overlay.CORS)
}

func (c *Config) finalize() error {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}

	if err := c.Server.Finalize(&ServerEnv{
		Host: "SPOTLIGHT_SERVER_HOST",
		Port: "SPOTLIGHT_SERVER_PORT",
	}); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Database.Finalize(&database.Env{
		Host:        "SPOTLIGHT_DB_HOST",
		Port:        "SPOTLIGHT_DB_PORT",
		Name:        "SPOTLIGHT_DB_NAME",
		User:        "SPOTLIGHT_DB_USER",
		Password:    "SPOTLIGHT_DB_PASSWORD",
		SSLMode:     "SPOTLIGHT_DB_SSL_MODE",
		MaxConns:    "SPOTLIGHT_DB_MAX_CONNS",
		ConnTimeout: "SPOTLIGHT_DB_CONN_TIMEOUT",
	}); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.RawStore.Finalize(&objectstore.Env{
		Bucket:          "SPOTLIGHT_RAW_BUCKET",
		Region:          "SPOTLIGHT_RAW_REGION",
		Endpoint:        "SPOTLIGHT_RAW_ENDPOINT",
		UsePathStyle:    "SPOTLIGHT_RAW_PATH_STYLE",
		AccessKeyID:     "SPOTLIGHT_RAW_ACCESS_KEY_ID",
		SecretAccessKey: "SPOTLIGHT_RAW_SECRET_ACCESS_KEY",
	}); err != nil {
		return fmt.Errorf("raw store config: %w", err)
	}

	if err := c.Staging.Finalize(&storage.Env{
		Enabled:          "SPOTLIGHT_STAGING_ENABLED",
		ContainerName:    "SPOTLIGHT_STAGING_CONTAINER",
		ConnectionString: "SPOTLIGHT_STAGING_CONNECTION_STRING",
	}); err != nil {
		return fmt.Errorf("staging config: %w", err)
	}

	if err := c.Vector.Finalize(&vector.Env{
		BaseURL: "SPOTLIGHT_VECTOR_URL",
		APIKey:  "SPOTLIGHT_VECTOR_API_KEY",
		Timeout: "SPOTLIGHT_VECTOR_TIMEOUT",
	}); err != nil {
		return fmt.Errorf("vector config: %w", err)
	}

	if err := c.AI.Finalize(&ai.Env{
		ChatHost:       "SPOTLIGHT_AI_CHAT_HOST",
		ChatModel:      "SPOTLIGHT_AI_CHAT_MODEL",
		EmbeddingHost:  "SPOTLIGHT_AI_EMBEDDING_HOST",
		EmbeddingModel: "SPOTLIGHT_AI_EMBEDDING_MODEL",
		Token:          "SPOTLIGHT_AI_TOKEN",
	}); err != nil {
		return fmt.Errorf("ai config: %w", err)
	}

	if err := c.Ingest.Finalize(&ingestion.Env{
		BatchConcurrency: "SPOTLIGHT_INGEST_BATCH_CONCURRENCY",
		MetadataTimeout:  "SPOTLIGHT_INGEST_METADATA_TIMEOUT",
	}); err != nil {
		return fmt.Errorf("ingest config: %w", err)
	}

	if err := c.CORS.Finalize(&middleware.CORSEnv{
		Enabled: "SPOTLIGHT_CORS_ENABLED",
		Origins: "SPOTLIGHT_CORS_ORIGINS",
	}); err != nil {
		return fmt.Errorf("cors config: %w", err)
	}

	return nil
}
