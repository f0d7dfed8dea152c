package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aganswers/spotlight/internal/records"
	"github.com/aganswers/spotlight/internal/vector"
	"github.com/aganswers/spotlight/pkg/objectstore"
)

// Catalog is the slice of the records system the pipeline needs.
type Catalog interface {
	Upsert(ctx context.Context, r *records.Record) (*records.Record, error)
	FindByPointer(ctx context.Context, tenantID, sourcePointer string) (*records.Record, error)
	Delete(ctx context.Context, tenantID, sourcePointer string) error
}

// Orchestrator drives one document through the full pipeline. The stages
// in order: classify, fetch source, resolve corpus, run the strategy
// ladder (unstructured only), profile (structured only), extract
// metadata, persist. A record is always written when the source could be
// read; degraded stages mark the record partial rather than failing the
// run.
type Orchestrator struct {
	cfg      *Config
	raw      objectstore.System
	resolver *Resolver
	selector *Selector
	client   vector.Client
	metadata *Extractor
	catalog  Catalog
	logger   *slog.Logger
}

// NewOrchestrator wires the pipeline.
func NewOrchestrator(
	cfg *Config,
	raw objectstore.System,
	resolver *Resolver,
	selector *Selector,
	client vector.Client,
	metadata *Extractor,
	catalog Catalog,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		raw:      raw,
		resolver: resolver,
		selector: selector,
		client:   client,
		metadata: metadata,
		catalog:  catalog,
		logger:   logger.With("system", "orchestrator"),
	}
}

// Ingest runs the pipeline for one document. Returns an error only for
// outcomes that produce no record: validation failures, an unreadable
// source, an unresolvable corpus, or a failed persist.
func (o *Orchestrator) Ingest(ctx context.Context, req Request) (*Result, error) {
	if err := normalize(&req); err != nil {
		return nil, err
	}

	file := Classify(req)
	if file.Kind == KindUnsupported {
		return nil, fmt.Errorf("%w: .%s (%s)", ErrUnsupportedType, file.Extension, req.DisplayName)
	}

	data, err := o.raw.GetBytes(ctx, req.SourcePointer)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, req.SourcePointer, err)
	}

	var reasons []string
	record := &records.Record{
		TenantID:      req.TenantID,
		SourcePointer: req.SourcePointer,
		DisplayName:   req.DisplayName,
		FileKind:      string(file.Kind),
		FileType:      file.Extension,
	}

	switch file.Kind {
	case KindStructured:
		reasons = o.runStructured(ctx, file, data, record)
	case KindUnstructured:
		var fatal error
		reasons, fatal = o.runUnstructured(ctx, file, data, record)
		if fatal != nil {
			return nil, fatal
		}
	}

	record.Status = string(StatusComplete)
	if len(reasons) > 0 {
		record.Status = string(StatusPartial)
		record.StatusReason = strings.Join(reasons, "; ")
	}

	stored, err := o.catalog.Upsert(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	return &Result{
		Record:  stored,
		Status:  Status(stored.Status),
		Reasons: reasons,
	}, nil
}

// runStructured profiles the data file and derives schema metadata.
// Structured files never touch the vector corpus.
func (o *Orchestrator) runStructured(ctx context.Context, file ClassifiedFile, data []byte, record *records.Record) []string {
	var reasons []string

	profile, err := ProfileStructured(file, data)
	if err != nil {
		o.logger.WarnContext(ctx, "structured profile failed",
			"source", file.SourcePointer, "error", err)
		reasons = append(reasons, "profile_failed")
		profile = nil
	}

	if profile != nil {
		record.ColumnHeaders = profile.ColumnHeaders
		rows := profile.RowCount
		record.RowCount = &rows
	}

	meta := o.metadata.ExtractStructured(file, profile)
	record.Summary = meta.Summary
	record.Keywords = meta.Keywords

	return reasons
}

// runUnstructured resolves the corpus, runs the strategy ladder, and
// extracts generative metadata. Only corpus resolution is fatal, and only
// when the vector service is enabled.
func (o *Orchestrator) runUnstructured(ctx context.Context, file ClassifiedFile, data []byte, record *records.Record) ([]string, error) {
	var reasons []string

	var corpus *vector.Corpus
	if o.client.Enabled() {
		resolved, err := o.resolver.Resolve(ctx, file.TenantID)
		if err != nil {
			return nil, err
		}
		corpus = resolved
	}

	ref, err := o.selector.Select(ctx, file, corpus, data)
	if err != nil {
		reasons = append(reasons, "vectorization_failed")
	} else {
		record.Contexts = ref.Contexts
		if ref.DocumentID != "" {
			corpusID, docID := ref.CorpusID, ref.DocumentID
			record.CorpusID = &corpusID
			record.VectorDocumentID = &docID
		}
		if ref.Strategy == "local_extract" && corpus != nil {
			// The document exists but is outside the corpus; flag it so a
			// later re-ingest can promote it.
			reasons = append(reasons, "local_fallback")
		}
	}

	excerpt, extractErr := o.excerpt(file, data)
	if extractErr != nil {
		o.logger.WarnContext(ctx, "excerpt extraction failed",
			"source", file.SourcePointer, "error", extractErr)
	}

	meta := o.metadata.ExtractUnstructured(ctx, file, Excerpt(excerpt, o.cfg.PromptChars))
	record.Summary = meta.Summary
	record.Keywords = meta.Keywords
	if meta.Degraded {
		reasons = append(reasons, "metadata_degraded")
	}

	return reasons, nil
}

// Remove deletes a document: its corpus file first (best effort), then
// the catalog record.
func (o *Orchestrator) Remove(ctx context.Context, tenantID, sourcePointer string) error {
	record, err := o.catalog.FindByPointer(ctx, tenantID, sourcePointer)
	if err != nil {
		return err
	}

	if record.CorpusID != nil && record.VectorDocumentID != nil && o.client.Enabled() {
		if err := o.client.DeleteFile(ctx, *record.CorpusID, *record.VectorDocumentID); err != nil {
			// The record still goes away; orphaned corpus entries are
			// reconciled out of band.
			o.logger.WarnContext(ctx, "corpus file deletion failed",
				"tenant", tenantID,
				"source", sourcePointer,
				"error", err)
		}
	}

	return o.catalog.Delete(ctx, tenantID, sourcePointer)
}

func (o *Orchestrator) excerpt(file ClassifiedFile, data []byte) (string, error) {
	text, err := ExtractText(file, data)
	if err != nil {
		return "", err
	}
	return Excerpt(text, o.cfg.ExcerptChars), nil
}

func normalize(req *Request) error {
	req.TenantID = strings.TrimSpace(req.TenantID)
	req.SourcePointer = strings.TrimSpace(req.SourcePointer)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if req.TenantID == "" {
		return errors.New("course_name is required")
	}
	if req.SourcePointer == "" {
		return errors.New("s3_path is required")
	}
	if req.DisplayName == "" {
		req.DisplayName = path.Base(req.SourcePointer)
	}
	return nil
}
