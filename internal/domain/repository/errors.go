package repository

import "errors"

// Store-level sentinel errors. The application layer maps these onto its
// user-facing error set.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)
