package records

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound  = errors.New("document record not found")
	ErrDuplicate = errors.New("document record already exists")
)

// MapHTTPStatus returns the HTTP status for a records error.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
