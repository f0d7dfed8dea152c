// Package infrastructure assembles the service's backing systems from
// configuration: database, raw store, staging store, vector client, and
// AI provider.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aganswers/spotlight/internal/ai"
	aiopenai "github.com/aganswers/spotlight/internal/ai/openai"
	"github.com/aganswers/spotlight/internal/config"
	"github.com/aganswers/spotlight/internal/vector"
	"github.com/aganswers/spotlight/pkg/database"
	"github.com/aganswers/spotlight/pkg/lifecycle"
	"github.com/aganswers/spotlight/pkg/objectstore"
	"github.com/aganswers/spotlight/pkg/storage"
)

// Infrastructure holds the backing systems shared by the domain packages.
// Staging is nil when disabled; the AI provider's members are nil when
// their backends are not configured.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Database  database.System
	RawStore  objectstore.System
	Staging   storage.System
	Vector    vector.Client
	AI        *ai.Provider
}

// New builds the infrastructure from config. Optional systems that are
// not configured are left nil rather than failing startup.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	raw, err := objectstore.New(ctx, &cfg.RawStore, logger)
	if err != nil {
		return nil, fmt.Errorf("raw store: %w", err)
	}

	var staging storage.System
	if cfg.Staging.Enabled {
		staging, err = storage.New(&cfg.Staging, logger)
		if err != nil {
			return nil, fmt.Errorf("staging store: %w", err)
		}
	}

	vectorClient := vector.NewClient(&cfg.Vector, logger)

	provider := &ai.Provider{}
	if cfg.AI.ChatEnabled() {
		provider.Summarizer, err = aiopenai.NewSummarizer(&cfg.AI, logger)
		if err != nil {
			return nil, fmt.Errorf("summarizer: %w", err)
		}
	}
	if cfg.AI.EmbeddingEnabled() {
		provider.Embedder, err = aiopenai.NewEmbedder(&cfg.AI, logger)
		if err != nil {
			return nil, fmt.Errorf("embedder: %w", err)
		}
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Database:  db,
		RawStore:  raw,
		Staging:   staging,
		Vector:    vectorClient,
		AI:        provider,
	}, nil
}

// Start registers every system's lifecycle hooks and waits for startup to
// complete.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("start database: %w", err)
	}
	if i.Staging != nil {
		if err := i.Staging.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("start staging: %w", err)
		}
	}

	i.Lifecycle.WaitForStartup()
	return nil
}
