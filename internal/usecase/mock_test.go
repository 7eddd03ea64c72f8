package usecase

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/vidingest/internal/domain/model"
	"github.com/hszk-dev/vidingest/internal/domain/repository"
)

// mockVideoRepository provides a configurable mock for VideoRepository.
type mockVideoRepository struct {
	createFn    func(ctx context.Context, path string) (*model.Video, error)
	listFn      func(ctx context.Context) ([]*model.Video, error)
	getByIDFn   func(ctx context.Context, id uuid.UUID) (*model.Video, error)
	getByPathFn func(ctx context.Context, path string) (*model.Video, error)
	createCount atomic.Int32
}

func (m *mockVideoRepository) Create(ctx context.Context, path string) (*model.Video, error) {
	m.createCount.Add(1)
	if m.createFn != nil {
		return m.createFn(ctx, path)
	}
	return &model.Video{ID: uuid.New(), Path: path}, nil
}

func (m *mockVideoRepository) List(ctx context.Context) ([]*model.Video, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoRepository) GetByPath(ctx context.Context, path string) (*model.Video, error) {
	if m.getByPathFn != nil {
		return m.getByPathFn(ctx, path)
	}
	return nil, repository.ErrVideoNotFound
}

// mockUserRepository provides a configurable mock for UserRepository.
type mockUserRepository struct {
	createFn        func(ctx context.Context, username, email string) (*model.User, error)
	listFn          func(ctx context.Context) ([]*model.User, error)
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*model.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, username, email string) (*model.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, email)
	}
	return &model.User{ID: uuid.New(), Username: username, Email: email}, nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]*model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, repository.ErrUserNotFound
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	putObjectFn    func(ctx context.Context, bucket, key string, reader io.Reader, size int64) error
	streamObjectFn func(ctx context.Context, bucket, key string, body io.Reader, contentLength int64) error
	existsFn       func(ctx context.Context, bucket, key string) (bool, error)
	bucket         string
	putCount       atomic.Int32
}

func (m *mockObjectStorage) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64) error {
	m.putCount.Add(1)
	if m.putObjectFn != nil {
		return m.putObjectFn(ctx, bucket, key, reader, size)
	}
	return nil
}

func (m *mockObjectStorage) StreamObject(ctx context.Context, bucket, key string, body io.Reader, contentLength int64) error {
	if m.streamObjectFn != nil {
		return m.streamObjectFn(ctx, bucket, key, body, contentLength)
	}
	_, err := io.Copy(io.Discard, body)
	return err
}

func (m *mockObjectStorage) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, bucket, key)
	}
	return true, nil
}

func (m *mockObjectStorage) Bucket() string {
	if m.bucket == "" {
		return "bucket"
	}
	return m.bucket
}

// mockOrphanQueue records published notices.
type mockOrphanQueue struct {
	mu        sync.Mutex
	published []repository.OrphanNotice
	publishFn func(ctx context.Context, notice repository.OrphanNotice) error
}

func (m *mockOrphanQueue) PublishOrphanNotice(ctx context.Context, notice repository.OrphanNotice) error {
	m.mu.Lock()
	m.published = append(m.published, notice)
	m.mu.Unlock()
	if m.publishFn != nil {
		return m.publishFn(ctx, notice)
	}
	return nil
}

func (m *mockOrphanQueue) ConsumeOrphanNotices(ctx context.Context, handler func(notice repository.OrphanNotice) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockOrphanQueue) Close() error {
	return nil
}

func (m *mockOrphanQueue) notices() []repository.OrphanNotice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repository.OrphanNotice(nil), m.published...)
}

// mockVideoCache is an in-memory VideoCache.
type mockVideoCache struct {
	mu    sync.RWMutex
	data  map[uuid.UUID]*model.Video
	getFn func(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	setFn func(ctx context.Context, video *model.Video, ttl time.Duration) error
}

func newMockVideoCache() *mockVideoCache {
	return &mockVideoCache{
		data: make(map[uuid.UUID]*model.Video),
	}
}

func (m *mockVideoCache) Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	if m.getFn != nil {
		return m.getFn(ctx, videoID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[videoID], nil
}

func (m *mockVideoCache) Set(ctx context.Context, video *model.Video, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, video, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[video.ID] = video
	return nil
}
