package vector

import "errors"

var (
	ErrDisabled       = errors.New("vector service is not configured")
	ErrCorpusExists   = errors.New("corpus already exists for tenant")
	ErrCorpusNotFound = errors.New("corpus not found")
	ErrFileNotFound   = errors.New("file not found in corpus")
)

// transientError wraps a failure that is worth retrying, such as a 5xx
// response or a timeout.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err represents a retryable failure.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
