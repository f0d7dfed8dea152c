// Package ingestion implements the document ingestion pipeline: classify
// the file, resolve the tenant's vector corpus, run the upload strategy
// ladder, extract metadata, and persist the catalog record. Upstream
// failures degrade the result to partial; only persistence failures abort.
package ingestion

import "github.com/aganswers/spotlight/internal/records"

// Kind partitions files by how they are processed.
type Kind string

const (
	// KindStructured marks tabular or hierarchical data files profiled for
	// schema metadata and excluded from vector indexing.
	KindStructured Kind = "structured"
	// KindUnstructured marks prose documents eligible for vector indexing.
	KindUnstructured Kind = "unstructured"
	// KindUnsupported marks files the pipeline rejects outright.
	KindUnsupported Kind = "unsupported"
)

// Status reports the overall outcome of an ingestion run.
type Status string

const (
	// StatusComplete means every applicable pipeline stage succeeded.
	StatusComplete Status = "complete"
	// StatusPartial means the record persisted but one or more upstream
	// stages failed or were skipped.
	StatusPartial Status = "partial"
)

// Request identifies one document to ingest.
type Request struct {
	// TenantID scopes the document to a tenant (course).
	TenantID string `json:"course_name"`
	// SourcePointer is the raw store object key for the uploaded original.
	SourcePointer string `json:"s3_path"`
	// DisplayName is the human readable filename. Defaults to the source
	// pointer's base name when empty.
	DisplayName string `json:"readable_filename"`
}

// ClassifiedFile is a request annotated with its type classification.
type ClassifiedFile struct {
	Request
	Kind Kind
	// Extension is the lowercased file extension without the leading dot.
	Extension string
}

// VectorRef records where a document landed after the strategy ladder.
type VectorRef struct {
	// Strategy names the strategy that succeeded.
	Strategy string
	// CorpusID and DocumentID are set when the document reached the corpus
	// service.
	CorpusID   string
	DocumentID string
	// Contexts holds locally extracted chunks when the local fallback ran.
	Contexts []records.Context
}

// Profile captures the schema of a structured file.
type Profile struct {
	ColumnHeaders []string
	RowCount      int
}

// Metadata is the generative or heuristic document description.
type Metadata struct {
	Summary  string
	Keywords []string
	// Degraded is true when the generative path failed and the heuristic
	// fallback produced the values.
	Degraded bool
}

// Result is the outcome of one ingestion run.
type Result struct {
	Record *records.Record `json:"record"`
	Status Status          `json:"status"`
	// Reasons lists the degradations that made the run partial.
	Reasons []string `json:"reasons,omitempty"`
}
