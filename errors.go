package imagebin

import "errors"

var (
	// ErrNotFound is returned when no metadata record exists for an image id
	ErrNotFound = errors.New("image not found")
	// ErrBlobNotFound is returned when a record exists but its blob is missing from storage
	ErrBlobNotFound = errors.New("image file not found in storage")
	// ErrInvalidInput is returned when request validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when the caller does not own the record
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInternal is returned when an underlying store fails
	ErrInternal = errors.New("internal error")
)
