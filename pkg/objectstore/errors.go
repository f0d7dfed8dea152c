package objectstore

import "errors"

var (
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrEmptyKey indicates an empty object key was provided.
	ErrEmptyKey = errors.New("object key must not be empty")
)
