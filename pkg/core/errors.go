package core

import "errors"

// Common errors.
var (
	ErrReadOnly = errors.New("repository is in read-only mode")
	ErrNotFound = errors.New("post not found")
	ErrNoID     = errors.New("post ID cannot be empty")
)
