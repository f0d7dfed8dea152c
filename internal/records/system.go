package records

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
)

// System provides catalog operations over the documents table.
type System struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates the records system.
func New(db *sql.DB, logger *slog.Logger) *System {
	return &System{
		db:     db,
		logger: logger.With("system", "records"),
	}
}

// Upsert stores the record, replacing any existing row for the same
// tenant and source pointer.
func (s *System) Upsert(ctx context.Context, r *Record) (*Record, error) {
	stored, err := Upsert(ctx, s.db, r)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "record upserted",
		"tenant", stored.TenantID,
		"source", stored.SourcePointer,
		"status", stored.Status)
	return stored, nil
}

// Find retrieves a record by id within a tenant.
func (s *System) Find(ctx context.Context, tenantID string, id uuid.UUID) (*Record, error) {
	return Find(ctx, s.db, tenantID, id)
}

// FindByPointer retrieves a record by its source pointer within a tenant.
func (s *System) FindByPointer(ctx context.Context, tenantID, sourcePointer string) (*Record, error) {
	return FindByPointer(ctx, s.db, tenantID, sourcePointer)
}

// ListByTenant retrieves all records for a tenant.
func (s *System) ListByTenant(ctx context.Context, tenantID string) ([]*Record, error) {
	return ListByTenant(ctx, s.db, tenantID)
}

// Delete removes a record by its source pointer within a tenant.
func (s *System) Delete(ctx context.Context, tenantID, sourcePointer string) error {
	if err := Delete(ctx, s.db, tenantID, sourcePointer); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "record deleted",
		"tenant", tenantID,
		"source", sourcePointer)
	return nil
}
