package ingestion_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aganswers/spotlight/internal/ingestion"
	"github.com/aganswers/spotlight/internal/records"
	"github.com/aganswers/spotlight/internal/vector"
)

type pipeline struct {
	client  *fakeVectorClient
	staging *fakeStaging
	raw     *fakeRawStore
	catalog *fakeCatalog
}

func newPipeline(t *testing.T, configure func(*pipeline)) (*ingestion.Orchestrator, *pipeline) {
	t.Helper()

	p := &pipeline{
		client:  &fakeVectorClient{},
		staging: newFakeStaging(),
		raw:     &fakeRawStore{objects: make(map[string][]byte)},
		catalog: newFakeCatalog(),
	}
	if configure != nil {
		configure(p)
	}

	cfg := &ingestion.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	logger := testLogger(t)
	resolver := ingestion.NewResolver(p.client, 2, logger)
	selector := ingestion.NewSelector(logger,
		ingestion.NewStagedImport(p.staging, p.client),
		ingestion.NewDirectUpload(p.client),
		ingestion.NewLocalExtract(nil, cfg.ChunkSize, cfg.ChunkOverlap, logger),
	)
	metadata := ingestion.NewExtractor(&fakeSummarizer{}, time.Second, logger)

	return ingestion.NewOrchestrator(
		cfg, p.raw, resolver, selector, p.client, metadata, p.catalog, logger,
	), p
}

func TestIngestUnstructuredComplete(t *testing.T) {
	orchestrator, _ := newPipeline(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/notes.txt"] = []byte("Crop rotation improves soil health.")
	})

	result, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/notes.txt",
		DisplayName:   "notes.txt",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != ingestion.StatusComplete {
		t.Errorf("status = %q, reasons = %v", result.Status, result.Reasons)
	}

	r := result.Record
	if r.FileKind != "unstructured" || r.FileType != "txt" {
		t.Errorf("kind/type = %q/%q", r.FileKind, r.FileType)
	}
	if r.CorpusID == nil || *r.CorpusID != "corpus-ag101" {
		t.Errorf("corpus id = %v", r.CorpusID)
	}
	if r.VectorDocumentID == nil || *r.VectorDocumentID != "file-imported" {
		t.Errorf("vector document id = %v", r.VectorDocumentID)
	}
	if r.Summary == "" || len(r.Keywords) == 0 {
		t.Errorf("metadata missing: summary=%q keywords=%v", r.Summary, r.Keywords)
	}
}

// minimalPDF builds a one-page PDF with a correct cross-reference table.
// Offsets are computed while writing so the document always validates.
func minimalPDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 4)

	buf.WriteString("%PDF-1.4\n")
	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<</Type/Catalog/Pages 2 0 R>>\nendobj\n")
	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<</Type/Pages/Kids[3 0 R]/Count 1>>\nendobj\n")
	offsets[3] = buf.Len()
	buf.WriteString("3 0 obj\n<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]/Resources<<>>>>\nendobj\n")

	start := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	buf.WriteString("trailer\n<</Size 4/Root 1 0 R>>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", start)

	return buf.Bytes()
}

func TestIngestPDFComplete(t *testing.T) {
	orchestrator, _ := newPipeline(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/report.pdf"] = minimalPDF(t)
	})

	result, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/report.pdf",
		DisplayName:   "report.pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != ingestion.StatusComplete {
		t.Errorf("status = %q, reasons = %v", result.Status, result.Reasons)
	}

	r := result.Record
	if r.FileKind != "unstructured" || r.FileType != "pdf" {
		t.Errorf("kind/type = %q/%q", r.FileKind, r.FileType)
	}
	if r.ColumnHeaders != nil || r.RowCount != nil {
		t.Error("pdf should never be profiled")
	}
	if r.VectorDocumentID == nil || *r.VectorDocumentID != "file-imported" {
		t.Errorf("vector document id = %v", r.VectorDocumentID)
	}
	if r.Summary == "" || len(r.Keywords) == 0 {
		t.Errorf("metadata missing: summary=%q keywords=%v", r.Summary, r.Keywords)
	}
}

func TestIngestUnparseablePDFIsDegradedNotFatal(t *testing.T) {
	orchestrator, _ := newPipeline(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/report.pdf"] = []byte("%PDF-1.4 not actually parseable")
	})

	result, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/report.pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != ingestion.StatusPartial {
		t.Errorf("status = %q, want partial when local inspection fails", result.Status)
	}
	found := false
	for _, reason := range result.Reasons {
		if reason == "metadata_degraded" {
			found = true
		}
	}
	if !found {
		t.Errorf("reasons = %v, want metadata_degraded", result.Reasons)
	}

	r := result.Record
	if r.ColumnHeaders != nil || r.RowCount != nil {
		t.Error("pdf should never be profiled")
	}
	if r.VectorDocumentID == nil {
		t.Error("pdf should still reach the corpus via staged import")
	}
	if r.Summary == "" {
		t.Error("metadata should fall back even when the pdf cannot be parsed locally")
	}
}

func TestIngestStructuredNeverTouchesCorpus(t *testing.T) {
	orchestrator, p := newPipeline(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/sales.csv"] = []byte("region,crop\nnorth,corn\nsouth,wheat\n")
	})

	result, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/sales.csv",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != ingestion.StatusComplete {
		t.Errorf("status = %q, reasons = %v", result.Status, result.Reasons)
	}
	if p.client.createCalls+p.client.importCalls+p.client.uploadCalls != 0 {
		t.Error("structured file reached the vector service")
	}

	r := result.Record
	if r.DisplayName != "sales.csv" {
		t.Errorf("display name should default to pointer base: %q", r.DisplayName)
	}
	if len(r.ColumnHeaders) != 2 {
		t.Errorf("column headers = %v", r.ColumnHeaders)
	}
	if r.RowCount == nil || *r.RowCount != 2 {
		t.Errorf("row count = %v", r.RowCount)
	}
	if !strings.Contains(r.Summary, "2 rows") {
		t.Errorf("summary = %q", r.Summary)
	}
}

func TestIngestUnsupportedType(t *testing.T) {
	orchestrator, _ := newPipeline(t, nil)

	_, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/tool.exe",
	})
	if !errors.Is(err, ingestion.ErrUnsupportedType) {
		t.Errorf("error = %v, want ErrUnsupportedType", err)
	}
}

func TestIngestSourceUnavailableIsFatal(t *testing.T) {
	orchestrator, p := newPipeline(t, func(p *pipeline) {
		p.raw.getErr = errors.New("bucket unreachable")
	})

	_, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/notes.txt",
	})
	if !errors.Is(err, ingestion.ErrSourceUnavailable) {
		t.Fatalf("error = %v, want ErrSourceUnavailable", err)
	}
	if p.catalog.upserts != 0 {
		t.Error("no record should be written when the source is unreadable")
	}
}

func TestIngestCorpusUnavailableIsFatal(t *testing.T) {
	orchestrator, p := newPipeline(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/notes.txt"] = []byte("text")
		p.client.createFn = func(string) (*vector.Corpus, error) {
			return nil, errors.New("corpus service rejected tenant")
		}
	})

	_, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/notes.txt",
	})
	if !errors.Is(err, ingestion.ErrCorpusUnavailable) {
		t.Fatalf("error = %v, want ErrCorpusUnavailable", err)
	}
	if p.catalog.upserts != 0 {
		t.Error("no record should be written when the corpus cannot be resolved")
	}
}

func TestIngestVectorDisabledFallsBackLocally(t *testing.T) {
	orchestrator, p := newPipeline(t, func(p *pipeline) {
		p.client.disabled = true
		p.raw.objects["courses/ag101/notes.txt"] = []byte(strings.Repeat("Soil biology notes. ", 200))
	})

	result, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/notes.txt",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != ingestion.StatusComplete {
		t.Errorf("local-only ingestion with no corpus configured should be complete, got %q (%v)",
			result.Status, result.Reasons)
	}
	if len(result.Record.Contexts) == 0 {
		t.Error("expected inline contexts from local extraction")
	}
	if result.Record.CorpusID != nil {
		t.Error("corpus id should be empty when the vector service is disabled")
	}
	if p.client.importCalls+p.client.uploadCalls != 0 {
		t.Error("disabled vector client was called")
	}
}

func TestIngestAllVectorStrategiesFailIsPartial(t *testing.T) {
	orchestrator, _ := newPipeline(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/blank.txt"] = []byte("   \n ")
		p.staging.stageErr = errors.New("staging offline")
		p.client.uploadFn = func(string, string, []byte) (*vector.File, error) {
			return nil, errors.New("upload rejected")
		}
	})

	result, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/blank.txt",
	})
	if err != nil {
		t.Fatalf("degraded ingestion should still return a result: %v", err)
	}

	if result.Status != ingestion.StatusPartial {
		t.Errorf("status = %q, want partial", result.Status)
	}
	found := false
	for _, reason := range result.Reasons {
		if reason == "vectorization_failed" {
			found = true
		}
	}
	if !found {
		t.Errorf("reasons = %v, want vectorization_failed", result.Reasons)
	}
	if result.Record.Summary == "" {
		t.Error("metadata should still be extracted for a partial record")
	}
}

func TestIngestLocalFallbackWithCorpusIsPartial(t *testing.T) {
	orchestrator, _ := newPipeline(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/notes.txt"] = []byte("Useful field notes on drainage.")
		p.staging.stageErr = errors.New("staging offline")
		p.client.uploadFn = func(string, string, []byte) (*vector.File, error) {
			return nil, errors.New("upload rejected")
		}
	})

	result, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/notes.txt",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != ingestion.StatusPartial {
		t.Errorf("status = %q, want partial when the document missed the corpus", result.Status)
	}
	if len(result.Record.Contexts) == 0 {
		t.Error("local fallback should store contexts")
	}
}

func TestIngestPersistenceFailureIsFatal(t *testing.T) {
	orchestrator, _ := newPipeline(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/notes.txt"] = []byte("text")
		p.catalog.upsertErr = errors.New("database down")
	})

	_, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/notes.txt",
	})
	if !errors.Is(err, ingestion.ErrPersistenceFailed) {
		t.Errorf("error = %v, want ErrPersistenceFailed", err)
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	orchestrator, p := newPipeline(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/notes.txt"] = []byte("version one")
	})

	req := ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/notes.txt",
	}

	if _, err := orchestrator.Ingest(context.Background(), req); err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	p.raw.objects["courses/ag101/notes.txt"] = []byte("version two, now with more detail")
	if _, err := orchestrator.Ingest(context.Background(), req); err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	if len(p.catalog.stored) != 1 {
		t.Errorf("stored records = %d, want 1 (same source pointer upserts in place)", len(p.catalog.stored))
	}
}

func TestIngestValidatesRequest(t *testing.T) {
	orchestrator, _ := newPipeline(t, nil)

	if _, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		SourcePointer: "courses/ag101/notes.txt",
	}); err == nil {
		t.Error("missing tenant should fail")
	}

	if _, err := orchestrator.Ingest(context.Background(), ingestion.Request{
		TenantID: "ag101",
	}); err == nil {
		t.Error("missing source pointer should fail")
	}
}

func TestRemoveDeletesVectorFileAndRecord(t *testing.T) {
	orchestrator, p := newPipeline(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/notes.txt"] = []byte("text to remove")
	})

	req := ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/notes.txt",
	}
	if _, err := orchestrator.Ingest(context.Background(), req); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if err := orchestrator.Remove(context.Background(), req.TenantID, req.SourcePointer); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if len(p.catalog.stored) != 0 {
		t.Error("record should be deleted")
	}
	if len(p.client.deleted) != 1 {
		t.Fatalf("vector deletions = %d, want 1", len(p.client.deleted))
	}
	if p.client.deleted[0] != [2]string{"corpus-ag101", "file-imported"} {
		t.Errorf("deleted = %v", p.client.deleted[0])
	}
}

func TestRemoveToleratesVectorDeletionFailure(t *testing.T) {
	orchestrator, p := newPipeline(t, func(p *pipeline) {
		p.raw.objects["courses/ag101/notes.txt"] = []byte("text")
		p.client.deleteFn = func(string, string) error {
			return errors.New("corpus service down")
		}
	})

	req := ingestion.Request{
		TenantID:      "ag101",
		SourcePointer: "courses/ag101/notes.txt",
	}
	if _, err := orchestrator.Ingest(context.Background(), req); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if err := orchestrator.Remove(context.Background(), req.TenantID, req.SourcePointer); err != nil {
		t.Fatalf("record deletion should proceed despite vector failure: %v", err)
	}
	if len(p.catalog.stored) != 0 {
		t.Error("record should be deleted")
	}
}

func TestRemoveMissingRecord(t *testing.T) {
	orchestrator, _ := newPipeline(t, nil)

	err := orchestrator.Remove(context.Background(), "ag101", "courses/ag101/ghost.txt")
	if !errors.Is(err, records.ErrNotFound) {
		t.Errorf("error = %v, want records.ErrNotFound", err)
	}
}
