package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hszk-dev/vidingest/internal/domain/repository"
	"github.com/hszk-dev/vidingest/internal/usecase"
)

// consumer feeds orphan notices from the queue to the reconcile service.
type consumer struct {
	queue  repository.OrphanQueue
	svc    usecase.ReconcileService
	logger *slog.Logger
}

// run consumes until stop is closed or the queue fails. On stop, intake
// ends at once but the notice in progress keeps an uncancelled context
// for up to grace before it is abandoned.
func (c *consumer) run(stop <-chan struct{}, grace time.Duration) error {
	consumeCtx, stopConsuming := context.WithCancel(context.Background())
	defer stopConsuming()
	workCtx, abortWork := context.WithCancel(context.Background())
	defer abortWork()

	consumerDone := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		defer close(consumerDone)

		c.logger.Info("starting reconciler, consuming orphan notices")
		err := c.queue.ConsumeOrphanNotices(consumeCtx, func(notice repository.OrphanNotice) error {
			if err := c.svc.ProcessNotice(workCtx, notice); err != nil {
				c.logger.Error("notice processing failed",
					slog.String("bucket", notice.Bucket),
					slog.String("key", notice.Key),
					slog.Int("retry_count", notice.RetryCount),
					slog.String("error", err.Error()),
				)
				return err
			}
			return nil
		})
		if err != nil && consumeCtx.Err() == nil {
			errCh <- fmt.Errorf("consumer error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	stopConsuming()

	// Deliveries are handled one at a time, so the consumer returning means
	// the notice in progress has been settled.
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-consumerDone:
		c.logger.Info("in-flight notice completed")
	case <-timer.C:
		c.logger.Warn("shutdown timeout exceeded, abandoning in-flight notice")
		abortWork()
		<-consumerDone
	}
	return nil
}
