package ingestion_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/aganswers/spotlight/internal/ai"
	"github.com/aganswers/spotlight/internal/records"
	"github.com/aganswers/spotlight/internal/vector"
	"github.com/aganswers/spotlight/pkg/lifecycle"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeVectorClient implements vector.Client with injectable behavior.
type fakeVectorClient struct {
	mu sync.Mutex

	disabled bool

	createFn func(tenantID string) (*vector.Corpus, error)
	findFn   func(tenantID string) (*vector.Corpus, error)
	importFn func(corpusID, sourceURL, displayName string) (*vector.File, error)
	uploadFn func(corpusID, displayName string, content []byte) (*vector.File, error)
	deleteFn func(corpusID, fileID string) error

	createCalls int
	findCalls   int
	importCalls int
	uploadCalls int
	deleted     [][2]string
}

func (f *fakeVectorClient) Enabled() bool { return !f.disabled }

func (f *fakeVectorClient) CreateCorpus(_ context.Context, tenantID string) (*vector.Corpus, error) {
	f.mu.Lock()
	f.createCalls++
	f.mu.Unlock()

	if f.createFn != nil {
		return f.createFn(tenantID)
	}
	return &vector.Corpus{ID: "corpus-" + tenantID, TenantID: tenantID}, nil
}

func (f *fakeVectorClient) FindCorpus(_ context.Context, tenantID string) (*vector.Corpus, error) {
	f.mu.Lock()
	f.findCalls++
	f.mu.Unlock()

	if f.findFn != nil {
		return f.findFn(tenantID)
	}
	return &vector.Corpus{ID: "corpus-" + tenantID, TenantID: tenantID}, nil
}

func (f *fakeVectorClient) ImportFile(_ context.Context, corpusID, sourceURL, displayName string) (*vector.File, error) {
	f.mu.Lock()
	f.importCalls++
	f.mu.Unlock()

	if f.importFn != nil {
		return f.importFn(corpusID, sourceURL, displayName)
	}
	return &vector.File{ID: "file-imported", CorpusID: corpusID, Name: displayName}, nil
}

func (f *fakeVectorClient) UploadFile(_ context.Context, corpusID, displayName string, content []byte) (*vector.File, error) {
	f.mu.Lock()
	f.uploadCalls++
	f.mu.Unlock()

	if f.uploadFn != nil {
		return f.uploadFn(corpusID, displayName, content)
	}
	return &vector.File{ID: "file-uploaded", CorpusID: corpusID, Name: displayName}, nil
}

func (f *fakeVectorClient) DeleteFile(_ context.Context, corpusID, fileID string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, [2]string{corpusID, fileID})
	f.mu.Unlock()

	if f.deleteFn != nil {
		return f.deleteFn(corpusID, fileID)
	}
	return nil
}

// fakeStaging implements storage.System in memory.
type fakeStaging struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	stageErr error
}

func newFakeStaging() *fakeStaging {
	return &fakeStaging{blobs: make(map[string][]byte)}
}

func (f *fakeStaging) Start(*lifecycle.Coordinator) error { return nil }

func (f *fakeStaging) Stage(_ context.Context, key string, reader io.Reader, _ string) (string, error) {
	if f.stageErr != nil {
		return "", f.stageErr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	f.blobs[key] = data
	f.mu.Unlock()

	return "https://staging.test/" + key, nil
}

func (f *fakeStaging) Download(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.blobs[key]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStaging) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, key)
	return nil
}

func (f *fakeStaging) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok, nil
}

// fakeRawStore implements objectstore.System from a key-to-bytes map.
type fakeRawStore struct {
	objects map[string][]byte
	getErr  error
}

func (f *fakeRawStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, err := f.lookup(key)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeRawStore) GetBytes(_ context.Context, key string) ([]byte, error) {
	return f.lookup(key)
}

func (f *fakeRawStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeRawStore) lookup(key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

// fakeCatalog implements ingestion.Catalog in memory, keyed by
// tenant|pointer like the database unique constraint.
type fakeCatalog struct {
	mu        sync.Mutex
	stored    map[string]*records.Record
	upsertErr error
	upserts   int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{stored: make(map[string]*records.Record)}
}

func (f *fakeCatalog) Upsert(_ context.Context, r *records.Record) (*records.Record, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.upserts++
	copied := *r
	f.stored[r.TenantID+"|"+r.SourcePointer] = &copied
	return &copied, nil
}

func (f *fakeCatalog) FindByPointer(_ context.Context, tenantID, sourcePointer string) (*records.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.stored[tenantID+"|"+sourcePointer]
	if !ok {
		return nil, records.ErrNotFound
	}
	return r, nil
}

func (f *fakeCatalog) Delete(_ context.Context, tenantID, sourcePointer string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := tenantID + "|" + sourcePointer
	if _, ok := f.stored[key]; !ok {
		return records.ErrNotFound
	}
	delete(f.stored, key)
	return nil
}

// fakeEmbedder returns fixed-size embeddings or a configured error.
type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i), 0.5}
	}
	return vectors, nil
}

// fakeSummarizer returns a fixed summary or a configured error.
type fakeSummarizer struct {
	summary *ai.Summary
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(_ context.Context, _, _ string) (*ai.Summary, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.summary != nil {
		return f.summary, nil
	}
	return &ai.Summary{
		Summary:  "A field report on crop rotation.",
		Keywords: []string{"crops", "rotation"},
	}, nil
}
