package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hszk-dev/vidingest/internal/domain/model"
	"github.com/hszk-dev/vidingest/internal/domain/repository"
	"github.com/hszk-dev/vidingest/internal/infrastructure/metrics"
	"golang.org/x/sync/errgroup"
)

// UploadedFile is the first "file" part of a buffered upload, fully read.
type UploadedFile struct {
	Name string
	Data []byte
}

// UploadVideoInput contains the input parameters for a buffered upload.
type UploadVideoInput struct {
	File *UploadedFile
}

// UploadVideoOutput contains the result of a buffered upload.
type UploadVideoOutput struct {
	Video *model.Video
}

// StreamObjectInput contains the input parameters for a streamed upload.
type StreamObjectInput struct {
	Bucket string
	Key    string
	Body   io.Reader
	// ContentLength is the inbound declared length, or -1 if absent.
	ContentLength int64
}

// IngestService defines the two ingestion paths.
type IngestService interface {
	// UploadVideo stores a fully buffered file and records its catalog row.
	// The blob write always completes before the row is inserted.
	UploadVideo(ctx context.Context, input UploadVideoInput) (*UploadVideoOutput, error)

	// StreamObject forwards a body to the object store as it arrives.
	// No catalog row is created.
	StreamObject(ctx context.Context, input StreamObjectInput) error
}

// IngestServiceConfig holds configuration for IngestService.
type IngestServiceConfig struct {
	// ChunkSize is the buffer size used when pumping a stream.
	ChunkSize int
	// OrphanPublishTimeout bounds the best-effort orphan notice publish.
	OrphanPublishTimeout time.Duration
}

// DefaultIngestServiceConfig returns the default configuration.
func DefaultIngestServiceConfig() IngestServiceConfig {
	return IngestServiceConfig{
		ChunkSize:            64 << 10,
		OrphanPublishTimeout: 5 * time.Second,
	}
}

type ingestService struct {
	videos  repository.VideoRepository
	storage repository.ObjectStorage
	orphans repository.OrphanQueue

	chunkSize      int
	publishTimeout time.Duration
}

// NewIngestService creates a new IngestService instance.
// orphans may be nil, in which case orphaned blobs are only logged.
func NewIngestService(
	videos repository.VideoRepository,
	storage repository.ObjectStorage,
	orphans repository.OrphanQueue,
	cfg IngestServiceConfig,
) IngestService {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultIngestServiceConfig().ChunkSize
	}
	return &ingestService{
		videos:         videos,
		storage:        storage,
		orphans:        orphans,
		chunkSize:      cfg.ChunkSize,
		publishTimeout: cfg.OrphanPublishTimeout,
	}
}

// UploadVideo writes the file to the default bucket, then inserts the row.
func (s *ingestService) UploadVideo(ctx context.Context, input UploadVideoInput) (*UploadVideoOutput, error) {
	if input.File == nil {
		recordUpload(metrics.ModeBuffered, metrics.ResultInputError)
		return nil, ErrMissingFile
	}

	bucket := s.storage.Bucket()
	key := model.ObjectKey(input.File.Name)
	size := int64(len(input.File.Data))

	if err := s.storage.PutObject(ctx, bucket, key, bytes.NewReader(input.File.Data), size); err != nil {
		recordUpload(metrics.ModeBuffered, metrics.ResultBlobError)
		return nil, fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}
	metrics.IngestBytesTotal.WithLabelValues(metrics.ModeBuffered).Add(float64(size))

	video, err := s.videos.Create(ctx, key)
	if err != nil {
		recordUpload(metrics.ModeBuffered, metrics.ResultCatalogError)
		slog.ErrorContext(ctx, "blob stored without catalog row",
			"bucket", bucket,
			"key", key,
			"error", err,
		)
		s.reportOrphan(ctx, bucket, key)
		return nil, fmt.Errorf("%w: %w", ErrCatalogWriteFailed, err)
	}

	recordUpload(metrics.ModeBuffered, metrics.ResultSuccess)
	return &UploadVideoOutput{Video: video}, nil
}

// reportOrphan publishes an orphan notice. Failures are logged only;
// the caller's error is already decided.
func (s *ingestService) reportOrphan(ctx context.Context, bucket, key string) {
	if s.orphans == nil {
		return
	}

	// The request context may already be cancelled.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	notice := repository.OrphanNotice{
		Bucket:   bucket,
		Key:      key,
		FailedAt: time.Now().UTC(),
	}
	if err := s.orphans.PublishOrphanNotice(pubCtx, notice); err != nil {
		metrics.OrphanNoticesTotal.WithLabelValues(metrics.OrphanPublishError).Inc()
		slog.ErrorContext(ctx, "failed to publish orphan notice",
			"bucket", bucket,
			"key", key,
			"error", err,
		)
		return
	}
	metrics.OrphanNoticesTotal.WithLabelValues(metrics.OrphanPublished).Inc()
}

// StreamObject pipes input.Body to the object store. One goroutine pumps
// the inbound body into the pipe while another runs the outbound write.
// A failed inbound read aborts the outbound write through the pipe and
// the shared context.
func (s *ingestService) StreamObject(ctx context.Context, input StreamObjectInput) error {
	if input.Bucket == "" || input.Key == "" {
		recordUpload(metrics.ModeStreaming, metrics.ResultInputError)
		return ErrInvalidObjectKey
	}
	if input.Body == nil {
		input.Body = bytes.NewReader(nil)
	}

	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	// The store side may be blocked reading pr; cancellation has to reach it
	// through the pipe.
	stop := context.AfterFunc(gctx, func() { _ = pr.CloseWithError(context.Cause(gctx)) })
	defer stop()

	var (
		pumpErr  error
		storeErr error
		written  int64
	)

	g.Go(func() error {
		written, pumpErr = s.pump(pw, input.Body)
		return pumpErr
	})

	g.Go(func() error {
		storeErr = s.storage.StreamObject(gctx, input.Bucket, input.Key, pr, input.ContentLength)
		// Unblock the pump if the store answered before draining the pipe.
		if storeErr != nil {
			_ = pr.CloseWithError(storeErr)
		} else {
			_ = pr.Close()
		}
		return storeErr
	})

	_ = g.Wait()

	// An inbound failure is the root cause of whatever the store reported.
	if pumpErr != nil {
		recordUpload(metrics.ModeStreaming, metrics.ResultInputError)
		return pumpErr
	}
	if storeErr != nil {
		recordUpload(metrics.ModeStreaming, metrics.ResultBlobError)
		return storeErr
	}

	metrics.IngestBytesTotal.WithLabelValues(metrics.ModeStreaming).Add(float64(written))
	recordUpload(metrics.ModeStreaming, metrics.ResultSuccess)
	return nil
}

// pump copies body into pw one chunk at a time. pw.Write blocks until the
// outbound side has consumed the chunk, so at most one chunk is in memory.
// A write error means the store side already finished and owns the error.
func (s *ingestService) pump(pw *io.PipeWriter, body io.Reader) (int64, error) {
	buf := make([]byte, s.chunkSize)
	var written int64

	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := pw.Write(buf[:n]); werr != nil {
				return written, nil
			}
			written += int64(n)
		}

		if errors.Is(rerr, io.EOF) {
			_ = pw.Close()
			return written, nil
		}
		if rerr != nil {
			err := fmt.Errorf("%w: %w", ErrBodyRead, rerr)
			_ = pw.CloseWithError(err)
			return written, err
		}
	}
}

func recordUpload(mode, result string) {
	metrics.IngestUploadsTotal.WithLabelValues(mode, result).Inc()
}
