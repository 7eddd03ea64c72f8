package repository

import (
	"context"
	"io"
)

// ObjectStorage defines the blob store operations used by ingestion.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
//
// Write failures are reported as *BlobWriteError (store rejected the write)
// or *BlobTransportError (store unreachable). Nothing is retried.
type ObjectStorage interface {
	// PutObject writes a fully materialized payload of the given size.
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64) error

	// StreamObject forwards body to the store as it is read, without
	// buffering it. contentLength < 0 means the length is unknown; otherwise
	// it is sent verbatim and a mismatch with the actual body fails. If body
	// is an io.Closer it is closed once ctx is done, to abort a blocked read.
	StreamObject(ctx context.Context, bucket, key string, body io.Reader, contentLength int64) error

	// Exists checks if an object exists.
	Exists(ctx context.Context, bucket, key string) (bool, error)

	// Bucket returns the default bucket for buffered uploads.
	Bucket() string
}
