package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/vidingest/internal/domain/model"
)

// VideoRepository defines the catalog operations over the videos table.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type VideoRepository interface {
	// Create inserts a row for path and returns it as committed,
	// including the catalog-generated identifier.
	Create(ctx context.Context, path string) (*model.Video, error)

	// List returns every video row.
	List(ctx context.Context) ([]*model.Video, error)

	// GetByID returns ErrVideoNotFound if no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// GetByPath returns ErrVideoNotFound if no row matches.
	// Several rows may share a path; the first one is returned.
	GetByPath(ctx context.Context, path string) (*model.Video, error)
}
