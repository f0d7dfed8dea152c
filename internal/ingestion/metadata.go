package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aganswers/spotlight/internal/ai"
)

// Extractor produces a summary and keywords for every ingested document.
// Unstructured documents go through the generative summarizer with a
// heuristic fallback; structured documents are always described from
// their profile, never from a model.
type Extractor struct {
	summarizer ai.Summarizer
	timeout    time.Duration
	logger     *slog.Logger
}

// NewExtractor creates a metadata extractor. The summarizer may be nil;
// extraction then always takes the heuristic path.
func NewExtractor(summarizer ai.Summarizer, timeout time.Duration, logger *slog.Logger) *Extractor {
	return &Extractor{
		summarizer: summarizer,
		timeout:    timeout,
		logger:     logger.With("system", "metadata"),
	}
}

// ExtractUnstructured summarizes a prose document from its text excerpt.
// Generative failure degrades to the heuristic values rather than failing
// the run.
func (e *Extractor) ExtractUnstructured(ctx context.Context, file ClassifiedFile, excerpt string) *Metadata {
	if e.summarizer == nil || strings.TrimSpace(excerpt) == "" {
		return e.heuristic(file)
	}

	summary, err := e.summarize(ctx, file.DisplayName, excerpt)
	if err != nil {
		e.logger.WarnContext(ctx, "generative metadata failed, using heuristic",
			"source", file.SourcePointer, "error", err)
		return e.heuristic(file)
	}

	meta := &Metadata{
		Summary:  summary.Summary,
		Keywords: summary.Keywords,
	}
	if meta.Summary == "" {
		meta.Summary = heuristicSummary(file)
		meta.Degraded = true
	}
	if len(meta.Keywords) == 0 {
		meta.Keywords = heuristicKeywords(file)
		meta.Degraded = true
	}
	return meta
}

// ExtractStructured describes a data file from its schema profile.
func (e *Extractor) ExtractStructured(file ClassifiedFile, profile *Profile) *Metadata {
	if profile == nil || len(profile.ColumnHeaders) == 0 {
		return e.heuristic(file)
	}

	summary := fmt.Sprintf("%s is a table with %d rows and the following columns: %s",
		file.DisplayName, profile.RowCount, strings.Join(profile.ColumnHeaders, ", "))

	keywords := make([]string, 0, maxHeaderKeywords)
	for _, header := range profile.ColumnHeaders {
		kw := strings.ToLower(strings.TrimSpace(header))
		kw = strings.ReplaceAll(kw, "_", " ")
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
		if len(keywords) == maxHeaderKeywords {
			break
		}
	}

	return &Metadata{Summary: summary, Keywords: keywords}
}

const maxHeaderKeywords = 10

// summarize calls the model under a per-call timeout, retrying once when
// the parent context is still alive.
func (e *Extractor) summarize(ctx context.Context, filename, excerpt string) (*ai.Summary, error) {
	attempt := func() (*ai.Summary, error) {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		return e.summarizer.Summarize(callCtx, filename, excerpt)
	}

	summary, err := attempt()
	if err != nil && ctx.Err() == nil {
		summary, err = attempt()
	}
	return summary, err
}

func (e *Extractor) heuristic(file ClassifiedFile) *Metadata {
	return &Metadata{
		Summary:  heuristicSummary(file),
		Keywords: heuristicKeywords(file),
		Degraded: e.summarizer != nil && file.Kind == KindUnstructured,
	}
}

func heuristicSummary(file ClassifiedFile) string {
	return "Document: " + file.DisplayName
}

func heuristicKeywords(file ClassifiedFile) []string {
	stem := file.DisplayName
	if idx := strings.LastIndex(stem, "."); idx > 0 {
		stem = stem[:idx]
	}
	stem = strings.ToLower(strings.TrimSpace(stem))
	if stem == "" {
		return nil
	}
	return []string{stem}
}
