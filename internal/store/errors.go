package store

import "errors"

// Expected failure modes, surfaced to the boundary layer for translation.
// Any other error indicates a store failure and is logged before a generic
// response goes out.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate value")
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)
