package records

import (
	"encoding/json"
	"fmt"

	"github.com/aganswers/spotlight/pkg/repository"
)

// recordColumns is the shared select list; scanRecord must stay in sync.
const recordColumns = `
	id, tenant_id, source_pointer, display_name, file_kind, file_type,
	corpus_id, vector_document_id, column_headers, row_count,
	summary, keywords, contexts, status, status_reason,
	created_at, updated_at`

func scanRecord(s repository.Scanner) (*Record, error) {
	var r Record
	var headers, keywords, contexts []byte

	err := s.Scan(
		&r.ID, &r.TenantID, &r.SourcePointer, &r.DisplayName, &r.FileKind, &r.FileType,
		&r.CorpusID, &r.VectorDocumentID, &headers, &r.RowCount,
		&r.Summary, &keywords, &contexts, &r.Status, &r.StatusReason,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &r.ColumnHeaders); err != nil {
			return nil, fmt.Errorf("decode column_headers: %w", err)
		}
	}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &r.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords: %w", err)
		}
	}
	if len(contexts) > 0 {
		if err := json.Unmarshal(contexts, &r.Contexts); err != nil {
			return nil, fmt.Errorf("decode contexts: %w", err)
		}
	}

	return &r, nil
}

// encodeJSON marshals v for a jsonb column, mapping nil slices to SQL NULL.
func encodeJSON(v any) (any, error) {
	switch t := v.(type) {
	case []string:
		if t == nil {
			return nil, nil
		}
	case []Context:
		if t == nil {
			return nil, nil
		}
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb value: %w", err)
	}
	return encoded, nil
}
