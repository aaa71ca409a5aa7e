// Package jobs owns job records and drives them through the
// upload → transcribe → extract → complete lifecycle.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/minutes/pkg/models"
)

// Mutator changes a job in place. Returning an error aborts the update and
// leaves the stored record untouched.
type Mutator func(j *models.Job) error

// Store holds all job records. Implementations must be safe for concurrent
// use, hand out copies only, and apply each Update atomically: the mutator
// sees the latest committed record and no other writer interleaves.
type Store interface {
	Create(ctx context.Context, audioRef, sourceName string) (*models.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Update(ctx context.Context, id uuid.UUID, fn Mutator) (*models.Job, error)
}

// MemoryStore is the in-process Store. Records are never removed.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*models.Job
	now  func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[uuid.UUID]*models.Job),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(_ context.Context, audioRef, sourceName string) (*models.Job, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	for _, taken := s.jobs[id]; taken; _, taken = s.jobs[id] {
		id = uuid.New()
	}

	job := &models.Job{
		ID:             id,
		Status:         models.JobStatusUploaded,
		AudioReference: audioRef,
		SourceName:     sourceName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.jobs[id] = job
	return job.Clone(), nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return job.Clone(), nil
}

// Update runs fn against a private copy of the record under the write lock
// and commits the copy only if fn succeeds. Identity fields are restored
// after fn runs so a mutator cannot rewrite them.
func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, fn Mutator) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.AudioReference = current.AudioReference
	next.SourceName = current.SourceName
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = s.now()

	s.jobs[id] = next
	return next.Clone(), nil
}

// Len returns the number of stored jobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

var _ Store = (*MemoryStore)(nil)
