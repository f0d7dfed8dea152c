package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for a unique constraint violation. The catalog hits
// this when two writers race on the same (tenant, source pointer) pair.
const codeUniqueViolation = "23505"

// Translate converts driver-level failures into the caller's domain
// errors: a missing row becomes missing, a unique constraint violation
// becomes conflict. Everything else passes through unchanged.
func Translate(err, missing, conflict error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return missing
	}

	if IsUniqueViolation(err) {
		return conflict
	}

	return err
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
