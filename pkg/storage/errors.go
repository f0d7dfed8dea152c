package storage

import "errors"

var (
	// ErrNotFound indicates the requested blob does not exist.
	ErrNotFound = errors.New("staging blob not found")
	// ErrEmptyKey indicates an empty staging key was provided.
	ErrEmptyKey = errors.New("staging key must not be empty")
	// ErrInvalidKey indicates the staging key contains a path traversal segment.
	ErrInvalidKey = errors.New("staging key contains invalid path segment")
)
