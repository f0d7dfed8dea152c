// Package records owns the document metadata catalog. Each row describes
// one ingested document for one tenant, keyed by the source pointer so
// repeat ingestion of the same source updates in place.
package records

import (
	"time"

	"github.com/google/uuid"
)

// Context is one locally extracted chunk of document text, stored inline
// when the vector service could not take the document.
type Context struct {
	Index     int       `json:"index"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// Record is the metadata row for an ingested document.
type Record struct {
	ID            uuid.UUID `json:"id"`
	TenantID      string    `json:"tenant_id"`
	SourcePointer string    `json:"source_pointer"`
	DisplayName   string    `json:"display_name"`
	FileKind      string    `json:"file_kind"`
	FileType      string    `json:"file_type"`

	// Vector placement. Both empty when the document never reached the
	// corpus service.
	CorpusID         *string `json:"corpus_id,omitempty"`
	VectorDocumentID *string `json:"vector_document_id,omitempty"`

	// Structured profile. Nil for unstructured documents.
	ColumnHeaders []string `json:"column_headers,omitempty"`
	RowCount      *int     `json:"row_count,omitempty"`

	Summary  string   `json:"summary,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	// Contexts holds locally extracted chunks for the fallback strategy.
	Contexts []Context `json:"contexts,omitempty"`

	Status       string `json:"status"`
	StatusReason string `json:"status_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
