// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vidingest"

var (
	// IngestUploadsTotal tracks finished upload attempts.
	// Labels:
	//   - mode: buffered, streaming
	//   - result: success, input_error, blob_error, catalog_error
	IngestUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_uploads_total",
			Help:      "Total number of upload attempts by ingestion mode and result",
		},
		[]string{"mode", "result"},
	)

	// IngestBytesTotal tracks payload bytes handed to the object store.
	IngestBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_bytes_total",
			Help:      "Total number of payload bytes forwarded to the object store",
		},
		[]string{"mode"},
	)

	// CacheOperationsTotal tracks cache operations (get, set).
	// Labels:
	//   - operation: get, set
	//   - status: hit, miss, success, error
	//   - cache_type: redis
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// DBQueriesTotal tracks catalog queries.
	// Labels:
	//   - query_type: select, insert
	//   - table: videos, users
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)

	// OrphanNoticesTotal tracks orphaned blobs reported and reconciled.
	// Labels:
	//   - outcome: published, publish_error, repaired, resolved, dropped, retried, abandoned
	OrphanNoticesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphan_notices_total",
			Help:      "Total number of orphan notices by outcome",
		},
		[]string{"outcome"},
	)
)

// Ingestion mode constants.
const (
	ModeBuffered  = "buffered"
	ModeStreaming = "streaming"
)

// Ingestion result constants.
const (
	ResultSuccess      = "success"
	ResultInputError   = "input_error"
	ResultBlobError    = "blob_error"
	ResultCatalogError = "catalog_error"
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet = "get"
	CacheOpSet = "set"
)

// Cache type constants.
const (
	CacheTypeRedis = "redis"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
	DBQueryInsert = "insert"
)

// Table name constants.
const (
	TableVideos = "videos"
	TableUsers  = "users"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)

// Orphan notice outcome constants.
const (
	OrphanPublished    = "published"
	OrphanPublishError = "publish_error"
	OrphanRepaired     = "repaired"
	OrphanResolved     = "resolved"
	OrphanDropped      = "dropped"
	OrphanRetried      = "retried"
	OrphanAbandoned    = "abandoned"
)
