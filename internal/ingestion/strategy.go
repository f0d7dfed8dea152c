package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/aganswers/spotlight/internal/ai"
	"github.com/aganswers/spotlight/internal/records"
	"github.com/aganswers/spotlight/internal/vector"
	"github.com/aganswers/spotlight/pkg/storage"
)

// Strategy is one rung of the upload ladder. Strategies are tried in
// order; the first applicable one that succeeds wins.
type Strategy interface {
	Name() string
	// Applicable reports whether this strategy can serve the file given
	// the resolved corpus (nil when the vector service is disabled).
	Applicable(file ClassifiedFile, corpus *vector.Corpus) bool
	// Attempt runs the strategy. A non-nil error moves the ladder to the
	// next rung.
	Attempt(ctx context.Context, file ClassifiedFile, corpus *vector.Corpus, data []byte) (*VectorRef, error)
}

// Selector runs the strategy ladder in order.
type Selector struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewSelector creates a selector over the given ladder.
func NewSelector(logger *slog.Logger, strategies ...Strategy) *Selector {
	return &Selector{
		strategies: strategies,
		logger:     logger.With("system", "strategies"),
	}
}

// Select tries each applicable strategy until one succeeds. Returns
// ErrVectorizationFailed wrapping every rung's failure when all fail.
func (s *Selector) Select(ctx context.Context, file ClassifiedFile, corpus *vector.Corpus, data []byte) (*VectorRef, error) {
	var failures []error

	for _, strategy := range s.strategies {
		if !strategy.Applicable(file, corpus) {
			continue
		}

		ref, err := strategy.Attempt(ctx, file, corpus, data)
		if err != nil {
			s.logger.WarnContext(ctx, "upload strategy failed",
				"strategy", strategy.Name(),
				"tenant", file.TenantID,
				"source", file.SourcePointer,
				"error", err)
			failures = append(failures, fmt.Errorf("%s: %w", strategy.Name(), err))
			continue
		}

		s.logger.InfoContext(ctx, "upload strategy succeeded",
			"strategy", strategy.Name(),
			"tenant", file.TenantID,
			"source", file.SourcePointer)
		return ref, nil
	}

	if len(failures) == 0 {
		return nil, fmt.Errorf("%w: no applicable strategy", ErrVectorizationFailed)
	}
	return nil, fmt.Errorf("%w: %w", ErrVectorizationFailed, errors.Join(failures...))
}

// stagedImport copies the document to staging and asks the corpus service
// to import it server to server. Preferred for large files since the
// bytes never transit the service API.
type stagedImport struct {
	staging storage.System
	client  vector.Client
}

// NewStagedImport creates the staged import strategy.
func NewStagedImport(staging storage.System, client vector.Client) Strategy {
	return &stagedImport{staging: staging, client: client}
}

func (s *stagedImport) Name() string { return "staged_import" }

func (s *stagedImport) Applicable(file ClassifiedFile, corpus *vector.Corpus) bool {
	return corpus != nil && s.staging != nil
}

func (s *stagedImport) Attempt(ctx context.Context, file ClassifiedFile, corpus *vector.Corpus, data []byte) (*VectorRef, error) {
	key := storage.Key(file.TenantID, file.DisplayName)

	url, err := s.staging.Stage(ctx, key, bytes.NewReader(data), contentType(file.Extension))
	if err != nil {
		return nil, fmt.Errorf("stage document: %w", err)
	}

	imported, err := s.client.ImportFile(ctx, corpus.ID, url, file.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("import from staging: %w", err)
	}

	return &VectorRef{
		Strategy:   s.Name(),
		CorpusID:   corpus.ID,
		DocumentID: imported.ID,
	}, nil
}

// directUpload pushes document bytes straight to the corpus service API.
// Fallback for when staging is unavailable.
type directUpload struct {
	client vector.Client
}

// NewDirectUpload creates the direct upload strategy.
func NewDirectUpload(client vector.Client) Strategy {
	return &directUpload{client: client}
}

func (d *directUpload) Name() string { return "direct_upload" }

func (d *directUpload) Applicable(file ClassifiedFile, corpus *vector.Corpus) bool {
	return corpus != nil
}

func (d *directUpload) Attempt(ctx context.Context, file ClassifiedFile, corpus *vector.Corpus, data []byte) (*VectorRef, error) {
	uploaded, err := d.client.UploadFile(ctx, corpus.ID, file.DisplayName, data)
	if err != nil {
		return nil, fmt.Errorf("direct upload: %w", err)
	}

	return &VectorRef{
		Strategy:   d.Name(),
		CorpusID:   corpus.ID,
		DocumentID: uploaded.ID,
	}, nil
}

// localExtract chunks the document locally and stores the contexts inline
// on the record. Last rung; always applicable so a document is never lost
// just because the corpus service is down.
type localExtract struct {
	embedder     ai.Embedder
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// NewLocalExtract creates the local extraction strategy. The embedder may
// be nil; contexts are then stored without embeddings.
func NewLocalExtract(embedder ai.Embedder, chunkSize, chunkOverlap int, logger *slog.Logger) Strategy {
	return &localExtract{
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger.With("strategy", "local_extract"),
	}
}

func (l *localExtract) Name() string { return "local_extract" }

func (l *localExtract) Applicable(file ClassifiedFile, corpus *vector.Corpus) bool {
	return true
}

func (l *localExtract) Attempt(ctx context.Context, file ClassifiedFile, corpus *vector.Corpus, data []byte) (*VectorRef, error) {
	text, err := ExtractText(file, data)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no extractable text in %s", file.DisplayName)
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(l.chunkSize),
		textsplitter.WithChunkOverlap(l.chunkOverlap),
	)

	chunks, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	contexts := make([]records.Context, len(chunks))
	for i, chunk := range chunks {
		contexts[i] = records.Context{Index: i, Text: chunk}
	}

	// Embedding failure is tolerated; contexts remain searchable by text.
	if l.embedder != nil {
		embeddings, err := l.embedder.EmbedTexts(ctx, chunks)
		if err != nil {
			l.logger.WarnContext(ctx, "context embedding failed, storing text only",
				"source", file.SourcePointer, "error", err)
		} else {
			for i := range contexts {
				contexts[i].Embedding = embeddings[i]
			}
		}
	}

	return &VectorRef{
		Strategy: l.Name(),
		Contexts: contexts,
	}, nil
}

func contentType(extension string) string {
	switch extension {
	case "pdf":
		return "application/pdf"
	case "html", "htm":
		return "text/html"
	case "md", "txt":
		return "text/plain"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	default:
		return "application/octet-stream"
	}
}
