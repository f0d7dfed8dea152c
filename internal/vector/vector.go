// Package vector provides the client for the managed vector corpus service.
// Each tenant owns at most one corpus; documents are imported from a staging
// URL or uploaded directly, and the service handles chunking and embedding
// on its side.
package vector

import "context"

// Corpus identifies a tenant's vector corpus on the remote service.
type Corpus struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Location string `json:"location"`
}

// File describes a document registered in a corpus.
type File struct {
	ID       string `json:"id"`
	CorpusID string `json:"corpus_id"`
	Name     string `json:"name"`
}

// Client is the contract against the vector corpus service. A disabled
// client reports Enabled() == false and rejects all other calls.
type Client interface {
	// Enabled reports whether the service is configured.
	Enabled() bool

	// CreateCorpus creates a corpus for the tenant. Returns ErrCorpusExists
	// when the tenant already owns one.
	CreateCorpus(ctx context.Context, tenantID string) (*Corpus, error)

	// FindCorpus looks up the tenant's corpus. Returns ErrCorpusNotFound
	// when none exists.
	FindCorpus(ctx context.Context, tenantID string) (*Corpus, error)

	// ImportFile asks the service to fetch and index a document from a
	// staging URL. Returns the registered file on success.
	ImportFile(ctx context.Context, corpusID, sourceURL, displayName string) (*File, error)

	// UploadFile pushes document bytes directly into the corpus.
	UploadFile(ctx context.Context, corpusID, displayName string, content []byte) (*File, error)

	// DeleteFile removes a document from the corpus. Deleting a file that
	// does not exist is not an error.
	DeleteFile(ctx context.Context, corpusID, fileID string) error
}
