package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrVideoNotFound is returned when a video lookup matches no row.
	ErrVideoNotFound = errors.New("video not found")

	// ErrUserNotFound is returned when a user lookup matches no row.
	ErrUserNotFound = errors.New("user not found")

	// ErrCatalogUnavailable is returned when the catalog cannot be reached
	// or a statement fails for a reason other than a missing row.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrBucketNotFound is returned when the configured bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrContentLengthMismatch is returned when a streamed body does not match
	// its declared length.
	ErrContentLengthMismatch = errors.New("content length mismatch")
)

// BlobWriteError reports that the object store answered a write with a
// non-success status. Status and Body are the upstream values, verbatim.
type BlobWriteError struct {
	Status int
	Body   string
}

func (e *BlobWriteError) Error() string {
	return fmt.Sprintf("blob write failed: status %d: %s", e.Status, e.Body)
}

// BlobTransportError reports that the object store could not be reached or
// the transfer broke before a response arrived.
type BlobTransportError struct {
	Cause error
}

func (e *BlobTransportError) Error() string {
	return fmt.Sprintf("blob transport failed: %v", e.Cause)
}

func (e *BlobTransportError) Unwrap() error {
	return e.Cause
}
