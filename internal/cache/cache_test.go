package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/minutes/internal/cache"
	"github.com/kiranshivaraju/minutes/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startRedis runs one Redis container for the calling test and its subtests.
func startRedis(t *testing.T) *cache.RedisCache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "redis")
	require.NoError(t, err)

	rc, err := cache.NewRedisCache(endpoint)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestRedisCache(t *testing.T) {
	rc := startRedis(t)
	ctx := context.Background()

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, rc.Ping(ctx))
	})

	t.Run("mirrors every lifecycle status", func(t *testing.T) {
		jobID := uuid.New()
		for _, s := range []models.Status{
			models.JobStatusUploaded,
			models.JobStatusTranscribing,
			models.JobStatusExtracting,
			models.JobStatusCompleted,
		} {
			require.NoError(t, rc.SetJobStatus(ctx, jobID, s, time.Minute))

			got, found, err := rc.GetJobStatus(ctx, jobID)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, s, got)
		}
	})

	t.Run("unknown job is not found", func(t *testing.T) {
		got, found, err := rc.GetJobStatus(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, got)
	})

	t.Run("status expires after ttl", func(t *testing.T) {
		jobID := uuid.New()
		require.NoError(t, rc.SetJobStatus(ctx, jobID, models.JobStatusError, time.Second))

		assert.Eventually(t, func() bool {
			_, found, err := rc.GetJobStatus(ctx, jobID)
			return err == nil && !found
		}, 5*time.Second, 100*time.Millisecond)
	})
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := cache.NewRedisCache("http://not-redis")
	assert.Error(t, err)
}

func TestNopCache(t *testing.T) {
	var c cache.Cache = cache.NopCache{}
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.SetJobStatus(ctx, uuid.New(), models.JobStatusUploaded, time.Minute))
}

func TestJobStatusKey(t *testing.T) {
	jobID := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	assert.Equal(t, "minutes:job:22222222-2222-2222-2222-222222222222:status", cache.JobStatusKey(jobID))
}
