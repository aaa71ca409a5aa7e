package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/minutes/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Cache mirrors job status for pollers outside this process.
// Implementations must be safe for concurrent use.
type Cache interface {
	Ping(ctx context.Context) error
	SetJobStatus(ctx context.Context, jobID uuid.UUID, status models.Status, ttl time.Duration) error
}

// RedisCache implements the Cache interface using go-redis/v9.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache from a Redis URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) SetJobStatus(ctx context.Context, jobID uuid.UUID, status models.Status, ttl time.Duration) error {
	return c.client.Set(ctx, JobStatusKey(jobID), string(status), ttl).Err()
}

// GetJobStatus reads the mirrored status back, the way an external poller
// would. found is false once the entry has expired.
func (c *RedisCache) GetJobStatus(ctx context.Context, jobID uuid.UUID) (models.Status, bool, error) {
	val, err := c.client.Get(ctx, JobStatusKey(jobID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return models.Status(val), true, nil
}

// NopCache is used when no Redis URL is configured.
type NopCache struct{}

func (NopCache) Ping(context.Context) error { return nil }
func (NopCache) SetJobStatus(context.Context, uuid.UUID, models.Status, time.Duration) error {
	return nil
}

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = NopCache{}
)
