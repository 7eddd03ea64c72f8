package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hszk-dev/vidingest/internal/domain/repository"
	"github.com/hszk-dev/vidingest/internal/infrastructure/metrics"
)

const (
	// DefaultMaxRetries is the default number of attempts before a notice is abandoned.
	DefaultMaxRetries = 5
)

// ReconcileServiceConfig holds configuration for ReconcileService.
type ReconcileServiceConfig struct {
	MaxRetries int
}

// DefaultReconcileServiceConfig returns the default configuration.
func DefaultReconcileServiceConfig() ReconcileServiceConfig {
	return ReconcileServiceConfig{
		MaxRetries: DefaultMaxRetries,
	}
}

// ReconcileService repairs blobs that were stored without a catalog row.
type ReconcileService interface {
	// ProcessNotice handles one orphan notice.
	// Returns nil when the notice is settled (repaired, already resolved,
	// blob gone, or retries exhausted) and an error when it should be retried.
	ProcessNotice(ctx context.Context, notice repository.OrphanNotice) error
}

type reconcileService struct {
	videos  repository.VideoRepository
	storage repository.ObjectStorage

	maxRetries int
}

// NewReconcileService creates a new ReconcileService instance.
func NewReconcileService(
	videos repository.VideoRepository,
	storage repository.ObjectStorage,
	cfg ReconcileServiceConfig,
) ReconcileService {
	return &reconcileService{
		videos:     videos,
		storage:    storage,
		maxRetries: cfg.MaxRetries,
	}
}

func (s *reconcileService) ProcessNotice(ctx context.Context, notice repository.OrphanNotice) error {
	logger := slog.With(
		"bucket", notice.Bucket,
		"key", notice.Key,
		"retry_count", notice.RetryCount,
	)

	if notice.RetryCount >= s.maxRetries {
		metrics.OrphanNoticesTotal.WithLabelValues(metrics.OrphanAbandoned).Inc()
		logger.ErrorContext(ctx, "giving up on orphaned blob, manual cleanup required",
			"failed_at", notice.FailedAt,
		)
		return nil
	}

	err := s.reconcile(ctx, logger, notice)
	if err != nil {
		metrics.OrphanNoticesTotal.WithLabelValues(metrics.OrphanRetried).Inc()
		logger.WarnContext(ctx, "orphan reconciliation failed, will retry", "error", err)
	}
	return err
}

func (s *reconcileService) reconcile(ctx context.Context, logger *slog.Logger, notice repository.OrphanNotice) error {
	existing, err := s.videos.GetByPath(ctx, notice.Key)
	if err == nil {
		metrics.OrphanNoticesTotal.WithLabelValues(metrics.OrphanResolved).Inc()
		logger.InfoContext(ctx, "orphan already has a catalog row", "video_id", existing.ID)
		return nil
	}
	if !errors.Is(err, repository.ErrVideoNotFound) {
		return fmt.Errorf("look up video by path: %w", err)
	}

	exists, err := s.storage.Exists(ctx, notice.Bucket, notice.Key)
	if err != nil {
		return fmt.Errorf("check blob: %w", err)
	}
	if !exists {
		metrics.OrphanNoticesTotal.WithLabelValues(metrics.OrphanDropped).Inc()
		logger.InfoContext(ctx, "orphaned blob no longer exists, dropping notice")
		return nil
	}

	video, err := s.videos.Create(ctx, notice.Key)
	if err != nil {
		return fmt.Errorf("create video: %w", err)
	}

	metrics.OrphanNoticesTotal.WithLabelValues(metrics.OrphanRepaired).Inc()
	logger.InfoContext(ctx, "orphaned blob repaired", "video_id", video.ID)
	return nil
}
