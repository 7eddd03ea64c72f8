package model

import (
	"errors"

	"github.com/google/uuid"
)

// DefaultFileName is the storage key used when an upload carries no file name.
const DefaultFileName = "uploaded_file.mp4"

var (
	ErrEmptyPath = errors.New("video path cannot be empty")
)

// Video is a catalog row pointing at a blob in the object store.
// Rows are never mutated once committed.
type Video struct {
	ID   uuid.UUID
	Path string
}

// ObjectKey returns the storage key for an uploaded file name,
// falling back to DefaultFileName when the client supplied none.
func ObjectKey(fileName string) string {
	if fileName == "" {
		return DefaultFileName
	}
	return fileName
}
