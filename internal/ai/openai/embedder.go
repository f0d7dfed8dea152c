package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/aganswers/spotlight/internal/ai"
)

// Embedder implements ai.Embedder using an OpenAI-compatible embedding endpoint.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// NewEmbedder creates an embedder against the configured embedding endpoint.
func NewEmbedder(cfg *ai.Config, logger *slog.Logger) (ai.Embedder, error) {
	client, err := openai.New(
		openai.WithBaseURL(cfg.EmbeddingHost),
		openai.WithToken(cfg.Token),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	return &Embedder{
		embedder: embedder,
		logger:   logger.With("system", "embedder"),
	}, nil
}

// EmbedTexts generates one embedding per input text, in input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %d texts: %w", len(texts), err)
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors))
	}

	return vectors, nil
}
