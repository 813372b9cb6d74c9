package persistence

import "errors"

var (
	// ErrInvalidInput indicates a nil or malformed argument.
	ErrInvalidInput = errors.New("persistence: invalid input")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
)
