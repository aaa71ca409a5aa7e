package jobs_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/minutes/internal/jobs"
	"github.com/kiranshivaraju/minutes/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateDefaults(t *testing.T) {
	s := jobs.NewMemoryStore()

	job, err := s.Create(context.Background(), "/tmp/a.wav", "a.wav")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, models.JobStatusUploaded, job.Status)
	assert.Equal(t, "/tmp/a.wav", job.AudioReference)
	assert.Equal(t, "a.wav", job.SourceName)
	assert.Nil(t, job.Transcript)
	assert.Nil(t, job.Results)
	assert.Nil(t, job.Error)
	assert.False(t, job.Confirmed)
	assert.False(t, job.CreatedAt.IsZero())
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	_, err := jobs.NewMemoryStore().Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, jobs.ErrNotFound)
}

func TestMemoryStore_UpdateNotFound(t *testing.T) {
	_, err := jobs.NewMemoryStore().Update(context.Background(), uuid.New(), func(*models.Job) error { return nil })
	assert.ErrorIs(t, err, jobs.ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := jobs.NewMemoryStore()
	ctx := context.Background()
	job, err := s.Create(ctx, "ref", "a.wav")
	require.NoError(t, err)

	_, err = s.Update(ctx, job.ID, func(j *models.Job) error {
		j.Results = &models.Minutes{Summary: "original", Decisions: []models.Decision{{Description: "d"}}}
		return nil
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	got.Status = models.JobStatusCompleted
	got.Results.Summary = "mutated"
	got.Results.Decisions[0].Description = "mutated"

	again, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusUploaded, again.Status)
	assert.Equal(t, "original", again.Results.Summary)
	assert.Equal(t, "d", again.Results.Decisions[0].Description)
}

func TestMemoryStore_UpdateAbortLeavesRecord(t *testing.T) {
	s := jobs.NewMemoryStore()
	ctx := context.Background()
	job, err := s.Create(ctx, "ref", "a.wav")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = s.Update(ctx, job.ID, func(j *models.Job) error {
		j.Status = models.JobStatusError
		j.Confirmed = true
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusUploaded, got.Status)
	assert.False(t, got.Confirmed)
}

func TestMemoryStore_UpdateKeepsIdentity(t *testing.T) {
	s := jobs.NewMemoryStore()
	ctx := context.Background()
	job, err := s.Create(ctx, "ref", "a.wav")
	require.NoError(t, err)

	updated, err := s.Update(ctx, job.ID, func(j *models.Job) error {
		j.ID = uuid.New()
		j.SourceName = "b.wav"
		j.AudioReference = "other"
		j.Status = models.JobStatusTranscribing
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, job.ID, updated.ID)
	assert.Equal(t, "a.wav", updated.SourceName)
	assert.Equal(t, "ref", updated.AudioReference)
	assert.Equal(t, job.CreatedAt, updated.CreatedAt)
	assert.Equal(t, models.JobStatusTranscribing, updated.Status)
	assert.False(t, updated.UpdatedAt.Before(job.UpdatedAt))
}

func TestMemoryStore_ConcurrentUpdatesAreSerialized(t *testing.T) {
	s := jobs.NewMemoryStore()
	ctx := context.Background()
	job, err := s.Create(ctx, "ref", "a.wav")
	require.NoError(t, err)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, job.ID, func(j *models.Job) error {
				j.ExportCount++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.ExportCount)
}

func TestMemoryStore_ConcurrentCreatesAreDistinct(t *testing.T) {
	s := jobs.NewMemoryStore()

	const n = 50
	ids := make(chan uuid.UUID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job, err := s.Create(context.Background(), "ref", "a.wav")
			assert.NoError(t, err)
			ids <- job.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uuid.UUID]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, n, s.Len())
}
