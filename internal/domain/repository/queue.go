package repository

import (
	"context"
	"time"
)

// OrphanNotice describes a blob that was written without its catalog row,
// because the catalog insert failed after the blob write succeeded.
type OrphanNotice struct {
	Bucket     string    `json:"bucket"`
	Key        string    `json:"key"`
	FailedAt   time.Time `json:"failed_at"`
	RetryCount int       `json:"retry_count"`
}

// OrphanQueue carries orphan notices from the gateway to the reconciler.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type OrphanQueue interface {
	// PublishOrphanNotice is called by the gateway after a failed catalog insert.
	PublishOrphanNotice(ctx context.Context, notice OrphanNotice) error

	// ConsumeOrphanNotices blocks, calling handler for each notice, until
	// ctx is cancelled or the delivery channel closes.
	ConsumeOrphanNotices(ctx context.Context, handler func(notice OrphanNotice) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
