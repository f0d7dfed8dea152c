package ingestion

import (
	"errors"
	"net/http"

	"github.com/aganswers/spotlight/internal/records"
)

var (
	// ErrUnsupportedType rejects files outside the structured and
	// unstructured allowlists.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrSourceUnavailable means the raw store could not produce the
	// document bytes. Fatal: nothing can be ingested without the source.
	ErrSourceUnavailable = errors.New("source document unavailable")
	// ErrCorpusUnavailable means the tenant's corpus could not be created
	// or fetched. Fatal when the vector service is enabled.
	ErrCorpusUnavailable = errors.New("corpus unavailable")
	// ErrVectorizationFailed means every applicable upload strategy failed.
	ErrVectorizationFailed = errors.New("all upload strategies failed")
	// ErrProfileFailed means a structured file could not be profiled.
	ErrProfileFailed = errors.New("structured profile failed")
	// ErrPersistenceFailed means the catalog record could not be written.
	ErrPersistenceFailed = errors.New("record persistence failed")
)

// MapHTTPStatus returns the HTTP status for an ingestion error.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ErrCorpusUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
