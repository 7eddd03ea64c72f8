package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/vidingest/internal/domain/model"
	"github.com/hszk-dev/vidingest/internal/infrastructure/cache"
	"github.com/hszk-dev/vidingest/internal/infrastructure/metrics"
	"golang.org/x/sync/singleflight"
)

// CachedCatalogServiceConfig holds configuration for the cached catalog.
type CachedCatalogServiceConfig struct {
	// CacheTTL is the TTL for cached video rows.
	CacheTTL time.Duration
}

// DefaultCachedCatalogServiceConfig returns the default configuration.
func DefaultCachedCatalogServiceConfig() CachedCatalogServiceConfig {
	return CachedCatalogServiceConfig{
		CacheTTL: 5 * time.Minute,
	}
}

// cachedCatalogService serves GetVideo cache-aside. Video rows are never
// updated, so no invalidation is needed. Every other method goes straight
// to the wrapped service.
type cachedCatalogService struct {
	CatalogService

	cache    cache.VideoCache
	sfGroup  singleflight.Group
	cacheTTL time.Duration
}

// NewCachedCatalogService wraps delegate with a video lookup cache.
func NewCachedCatalogService(
	delegate CatalogService,
	videoCache cache.VideoCache,
	cfg CachedCatalogServiceConfig,
) CatalogService {
	return &cachedCatalogService{
		CatalogService: delegate,
		cache:          videoCache,
		cacheTTL:       cfg.CacheTTL,
	}
}

// GetVideo coalesces concurrent lookups for the same id with singleflight.
func (s *cachedCatalogService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	result, err, shared := s.sfGroup.Do(videoID.String(), func() (any, error) {
		return s.getVideoWithCache(ctx, videoID)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}

	// Hand out a copy so callers never share the cached pointer.
	video := *result.(*model.Video)
	return &video, nil
}

func (s *cachedCatalogService) getVideoWithCache(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	video, err := s.cache.Get(ctx, videoID)
	if err != nil {
		slog.WarnContext(ctx, "cache get failed, falling back to catalog",
			"video_id", videoID,
			"error", err,
		)
	}
	if video != nil {
		return video, nil
	}

	video, err = s.CatalogService.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, video, s.cacheTTL); err != nil {
		slog.WarnContext(ctx, "failed to cache video",
			"video_id", videoID,
			"error", err,
		)
	}

	return video, nil
}
