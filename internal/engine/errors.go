package engine

import "errors"

var (
	// ErrUnknownBackend indicates storeBackend names no known store.
	ErrUnknownBackend = errors.New("unknown store backend")

	// ErrEmptyPath indicates a blank path argument.
	ErrEmptyPath = errors.New("path is empty")
)
