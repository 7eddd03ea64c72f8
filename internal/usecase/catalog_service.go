package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hszk-dev/vidingest/internal/domain/model"
	"github.com/hszk-dev/vidingest/internal/domain/repository"
)

// CreateUserInput contains the input parameters for creating a user.
type CreateUserInput struct {
	Username string
	Email    string
}

// CatalogService defines the read and user-creation operations over the catalog.
// Lookups return repository.ErrUserNotFound or repository.ErrVideoNotFound
// when no row matches.
type CatalogService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	ListVideos(ctx context.Context) ([]*model.Video, error)
	GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	GetVideoByPath(ctx context.Context, path string) (*model.Video, error)
}

type catalogService struct {
	users  repository.UserRepository
	videos repository.VideoRepository
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(users repository.UserRepository, videos repository.VideoRepository) CatalogService {
	return &catalogService{
		users:  users,
		videos: videos,
	}
}

// CreateUser validates and inserts a user row.
func (s *catalogService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if err := model.ValidateNewUser(input.Username, input.Email); err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, input.Username, input.Email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *catalogService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

func (s *catalogService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *catalogService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *catalogService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *catalogService) ListVideos(ctx context.Context) ([]*model.Video, error) {
	return s.videos.List(ctx)
}

func (s *catalogService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	return s.videos.GetByID(ctx, videoID)
}

func (s *catalogService) GetVideoByPath(ctx context.Context, path string) (*model.Video, error) {
	return s.videos.GetByPath(ctx, path)
}
