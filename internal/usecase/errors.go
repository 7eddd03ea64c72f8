package usecase

import "errors"

var (
	// ErrMissingFile is returned when a buffered upload carries no "file" part.
	ErrMissingFile = errors.New("no file part in request")

	// ErrInvalidObjectKey is returned when a streamed write names no bucket or key.
	ErrInvalidObjectKey = errors.New("bucket and object key are required")

	// ErrBodyRead is returned when the inbound body fails mid-stream,
	// usually because the client went away.
	ErrBodyRead = errors.New("failed to read request body")

	// ErrCatalogWriteFailed is returned when the blob was stored but its
	// catalog row could not be inserted. The blob is left in place.
	ErrCatalogWriteFailed = errors.New("catalog write failed")
)
