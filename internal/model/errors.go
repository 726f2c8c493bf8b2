package model

import "errors"

// Sentinel errors shared across packages. Note that "record not found" is
// not among them: store lookups signal absence with a nil result, not an
// error, so callers branch without error handling.
var (
	ErrValidation = errors.New("validation error")
	ErrClosed     = errors.New("store is closed")
)
