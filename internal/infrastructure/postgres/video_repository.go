package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/vidingest/internal/domain/model"
	"github.com/hszk-dev/vidingest/internal/domain/repository"
	"github.com/hszk-dev/vidingest/internal/infrastructure/metrics"
)

// VideoRepository implements repository.VideoRepository using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a video row and returns it with the generated video_id.
func (r *VideoRepository) Create(ctx context.Context, path string) (*model.Video, error) {
	if path == "" {
		return nil, model.ErrEmptyPath
	}

	const query = `
		INSERT INTO videos (video_path)
		VALUES ($1)
		RETURNING video_id, video_path
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableVideos).Inc()

	video, err := scanVideo(r.db.QueryRow(ctx, query, path))
	if err != nil {
		return nil, unavailable("create video", err)
	}

	return video, nil
}

// List returns all video rows.
func (r *VideoRepository) List(ctx context.Context) ([]*model.Video, error) {
	const query = `SELECT video_id, video_path FROM videos`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, unavailable("list videos", err)
	}
	defer rows.Close()

	videos := make([]*model.Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, unavailable("scan video", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate videos", err)
	}

	return videos, nil
}

// GetByID retrieves a video by its identifier.
func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	const query = `
		SELECT video_id, video_path
		FROM videos
		WHERE video_id = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()

	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, lookupError(err, repository.ErrVideoNotFound, "get video by ID")
	}

	return video, nil
}

// GetByPath retrieves the first video stored under path.
func (r *VideoRepository) GetByPath(ctx context.Context, path string) (*model.Video, error) {
	const query = `
		SELECT video_id, video_path
		FROM videos
		WHERE video_path = $1
		LIMIT 1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()

	video, err := scanVideo(r.db.QueryRow(ctx, query, path))
	if err != nil {
		return nil, lookupError(err, repository.ErrVideoNotFound, "get video by path")
	}

	return video, nil
}

// scanVideo scans a single row into a Video model.
// Both pgx.Row and pgx.Rows satisfy the row argument.
func scanVideo(row pgx.Row) (*model.Video, error) {
	var video model.Video
	if err := row.Scan(&video.ID, &video.Path); err != nil {
		return nil, err
	}
	return &video, nil
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)
