// Package ai defines the generative and embedding contracts consumed by the
// ingestion pipeline. Implementations live in subpackages; the pipeline only
// depends on these interfaces so tests can substitute fakes.
package ai

import "context"

// Summary is the outcome of a generative summarization call.
type Summary struct {
	// Summary is a short description of the document. May be empty when the
	// model returned nothing usable.
	Summary string
	// Keywords are up to ten descriptive terms.
	Keywords []string
}

// Summarizer produces a summary and keyword set for a document excerpt.
// Implementations must be safe for concurrent use.
type Summarizer interface {
	Summarize(ctx context.Context, filename, excerpt string) (*Summary, error)
}

// Embedder generates vector embeddings for text chunks.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedTexts returns one embedding per input text, in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider aggregates the AI services behind a single initialization point.
// Either service may be nil when its backend is not configured; callers
// degrade accordingly.
type Provider struct {
	Summarizer Summarizer
	Embedder   Embedder
}
