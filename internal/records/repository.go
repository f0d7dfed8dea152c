package records

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/aganswers/spotlight/pkg/repository"
)

const upsertQuery = `
	INSERT INTO documents (
		tenant_id, source_pointer, display_name, file_kind, file_type,
		corpus_id, vector_document_id, column_headers, row_count,
		summary, keywords, contexts, status, status_reason
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (tenant_id, source_pointer) DO UPDATE SET
		display_name = EXCLUDED.display_name,
		file_kind = EXCLUDED.file_kind,
		file_type = EXCLUDED.file_type,
		corpus_id = EXCLUDED.corpus_id,
		vector_document_id = EXCLUDED.vector_document_id,
		column_headers = EXCLUDED.column_headers,
		row_count = EXCLUDED.row_count,
		summary = EXCLUDED.summary,
		keywords = EXCLUDED.keywords,
		contexts = EXCLUDED.contexts,
		status = EXCLUDED.status,
		status_reason = EXCLUDED.status_reason,
		updated_at = now()
	RETURNING` + recordColumns

// Upsert inserts the record or, when a row for (tenant_id, source_pointer)
// already exists, replaces its mutable fields. Returns the stored row.
func Upsert(ctx context.Context, db *sql.DB, r *Record) (*Record, error) {
	headers, err := encodeJSON(r.ColumnHeaders)
	if err != nil {
		return nil, err
	}
	keywords, err := encodeJSON(r.Keywords)
	if err != nil {
		return nil, err
	}
	contexts, err := encodeJSON(r.Contexts)
	if err != nil {
		return nil, err
	}

	args := []any{
		r.TenantID, r.SourcePointer, r.DisplayName, r.FileKind, r.FileType,
		r.CorpusID, r.VectorDocumentID, headers, r.RowCount,
		r.Summary, keywords, contexts, r.Status, r.StatusReason,
	}

	stored, err := repository.QueryOne(ctx, db, scanRecord, upsertQuery, args...)
	if err != nil {
		return nil, repository.Translate(err, ErrNotFound, ErrDuplicate)
	}
	return stored, nil
}

// Find retrieves a record by id within a tenant.
func Find(ctx context.Context, db *sql.DB, tenantID string, id uuid.UUID) (*Record, error) {
	query := `SELECT` + recordColumns + `
		FROM documents
		WHERE tenant_id = $1 AND id = $2`

	r, err := repository.QueryOne(ctx, db, scanRecord, query, tenantID, id)
	if err != nil {
		return nil, repository.Translate(err, ErrNotFound, ErrDuplicate)
	}
	return r, nil
}

// FindByPointer retrieves a record by its source pointer within a tenant.
func FindByPointer(ctx context.Context, db *sql.DB, tenantID, sourcePointer string) (*Record, error) {
	query := `SELECT` + recordColumns + `
		FROM documents
		WHERE tenant_id = $1 AND source_pointer = $2`

	r, err := repository.QueryOne(ctx, db, scanRecord, query, tenantID, sourcePointer)
	if err != nil {
		return nil, repository.Translate(err, ErrNotFound, ErrDuplicate)
	}
	return r, nil
}

// ListByTenant retrieves all records for a tenant, most recently updated first.
func ListByTenant(ctx context.Context, db *sql.DB, tenantID string) ([]*Record, error) {
	query := `SELECT` + recordColumns + `
		FROM documents
		WHERE tenant_id = $1
		ORDER BY updated_at DESC`

	results, err := repository.QueryMany(ctx, db, scanRecord, query, tenantID)
	if err != nil {
		return nil, repository.Translate(err, ErrNotFound, ErrDuplicate)
	}
	return results, nil
}

// Delete removes a record by its source pointer within a tenant.
// Returns ErrNotFound when no row matched.
func Delete(ctx context.Context, db *sql.DB, tenantID, sourcePointer string) error {
	query := `DELETE FROM documents
		WHERE tenant_id = $1 AND source_pointer = $2`

	if err := repository.ExecExpectOne(ctx, db, query, tenantID, sourcePointer); err != nil {
		return repository.Translate(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}
