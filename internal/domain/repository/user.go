package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/vidingest/internal/domain/model"
)

// UserRepository defines the catalog operations over the users table.
type UserRepository interface {
	Create(ctx context.Context, username, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)

	// Lookups return ErrUserNotFound if no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
