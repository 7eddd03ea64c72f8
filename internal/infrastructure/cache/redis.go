package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/vidingest/internal/domain/model"
	"github.com/hszk-dev/vidingest/internal/infrastructure/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	// videoCacheKeyPrefix is the prefix for video cache keys in Redis.
	videoCacheKeyPrefix = "video:"
)

// videoJSON is the cached representation of a Video.
type videoJSON struct {
	ID   string `json:"video_id"`
	Path string `json:"video_path"`
}

// RedisVideoCache implements VideoCache using Redis as the backing store.
type RedisVideoCache struct {
	client *redis.Client
}

var _ VideoCache = (*RedisVideoCache)(nil)

// NewRedisVideoCache creates a new Redis-backed video cache.
func NewRedisVideoCache(client *redis.Client) *RedisVideoCache {
	return &RedisVideoCache{
		client: client,
	}
}

// Get retrieves a video from Redis cache.
// Returns nil, nil on cache miss.
func (c *RedisVideoCache) Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	data, err := c.client.Get(ctx, buildKey(videoID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			recordOp(metrics.CacheOpGet, metrics.CacheStatusMiss)
			return nil, nil
		}
		recordOp(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("redis get: %w", err)
	}

	video, err := deserialize(data)
	if err != nil {
		recordOp(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("deserialize video: %w", err)
	}

	recordOp(metrics.CacheOpGet, metrics.CacheStatusHit)
	return video, nil
}

// Set stores a video in Redis cache with the specified TTL.
func (c *RedisVideoCache) Set(ctx context.Context, video *model.Video, ttl time.Duration) error {
	data, err := json.Marshal(videoJSON{ID: video.ID.String(), Path: video.Path})
	if err != nil {
		recordOp(metrics.CacheOpSet, metrics.CacheStatusError)
		return fmt.Errorf("serialize video: %w", err)
	}

	if err := c.client.Set(ctx, buildKey(video.ID), data, ttl).Err(); err != nil {
		recordOp(metrics.CacheOpSet, metrics.CacheStatusError)
		return fmt.Errorf("redis set: %w", err)
	}

	recordOp(metrics.CacheOpSet, metrics.CacheStatusSuccess)
	return nil
}

func buildKey(videoID uuid.UUID) string {
	return videoCacheKeyPrefix + videoID.String()
}

func deserialize(data []byte) (*model.Video, error) {
	var v videoJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(v.ID)
	if err != nil {
		return nil, fmt.Errorf("parse video ID: %w", err)
	}

	return &model.Video{ID: id, Path: v.Path}, nil
}

func recordOp(op, status string) {
	metrics.CacheOperationsTotal.WithLabelValues(op, status, metrics.CacheTypeRedis).Inc()
}
