package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/minutes/internal/ai"
	"github.com/kiranshivaraju/minutes/internal/cache"
	"github.com/kiranshivaraju/minutes/internal/events"
	"github.com/kiranshivaraju/minutes/internal/report"
	"github.com/kiranshivaraju/minutes/internal/store"
	"github.com/kiranshivaraju/minutes/pkg/models"
)

const (
	DefaultMaxArtifactBytes int64 = 25 << 20
	defaultTimeout                = 5 * time.Minute
	defaultStatusTTL              = 24 * time.Hour
)

// ArtifactSizer reports the stored size of an uploaded audio artifact.
type ArtifactSizer interface {
	Size(ref string) (int64, error)
}

// Report is a rendered export of a job's minutes.
type Report struct {
	Markdown string
	Filename string
}

// Engine is the only writer of job records. It validates transitions, runs
// the transcription and extraction adapters in sequence, and serves the
// confirm and export operations.
type Engine struct {
	store       Store
	transcriber models.Transcriber
	extractor   models.Extractor
	artifacts   ArtifactSizer

	maxArtifactBytes int64
	timeout          time.Duration

	cache     cache.Cache
	statusTTL time.Duration
	publisher events.Publisher
	archive   store.ReportStore
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxArtifactBytes sets the largest artifact handed to the transcriber.
func WithMaxArtifactBytes(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxArtifactBytes = n
		}
	}
}

// WithTimeout bounds each adapter call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithStatusCache mirrors every status change into c.
func WithStatusCache(c cache.Cache, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = c
		if ttl > 0 {
			e.statusTTL = ttl
		}
	}
}

// WithPublisher emits lifecycle events through p.
func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithArchive appends every export to a.
func WithArchive(a store.ReportStore) Option {
	return func(e *Engine) { e.archive = a }
}

// NewEngine creates an Engine over st using the given adapters.
func NewEngine(st Store, t models.Transcriber, x models.Extractor, artifacts ArtifactSizer, opts ...Option) *Engine {
	e := &Engine{
		store:            st,
		transcriber:      t,
		extractor:        x,
		artifacts:        artifacts,
		maxArtifactBytes: DefaultMaxArtifactBytes,
		timeout:          defaultTimeout,
		cache:            cache.NopCache{},
		statusTTL:        defaultStatusTTL,
		publisher:        events.NopPublisher{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create registers a freshly uploaded artifact as a new job in the uploaded state.
func (e *Engine) Create(ctx context.Context, audioRef, sourceName string) (*models.Job, error) {
	job, err := e.store.Create(ctx, audioRef, sourceName)
	if err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}
	slog.Info("job created", "job_id", job.ID, "filename", sourceName)
	e.statusChanged(ctx, job)
	return job, nil
}

// Process runs the full pipeline for a job in the uploaded or error state and
// blocks until it ends in completed or error. Only one caller can move a job
// out of a processable state; concurrent callers get ErrInvalidTransition.
//
// The pipeline is detached from ctx cancellation so a job is never left in
// transcribing or extracting.
func (e *Engine) Process(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := e.store.Update(ctx, id, func(j *models.Job) error {
		if j.Status.InFlight() {
			return fmt.Errorf("%w: job is already being processed (status %s)", ErrInvalidTransition, j.Status)
		}
		if !j.Status.Processable() {
			return fmt.Errorf("%w: cannot process job in status %s", ErrInvalidTransition, j.Status)
		}
		j.Status = models.JobStatusTranscribing
		j.Error = nil
		j.ErrorKind = models.ErrorKindNone
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.statusChanged(ctx, job)

	return e.run(context.WithoutCancel(ctx), job)
}

func (e *Engine) run(ctx context.Context, job *models.Job) (out *models.Job, err error) {
	id := job.ID

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while processing job", "job_id", id, "error", r, "stack", string(debug.Stack()))
			out, err = e.fail(ctx, id, models.ErrorKindInternal, fmt.Errorf("%w: panic: %v", ErrInternal, r))
		}
	}()

	size, err := e.artifacts.Size(job.AudioReference)
	if err != nil {
		return e.fail(ctx, id, models.ErrorKindValidation,
			fmt.Errorf("%w: audio file unavailable: %w", ErrValidation, err))
	}
	if size > e.maxArtifactBytes {
		return e.fail(ctx, id, models.ErrorKindValidation,
			fmt.Errorf("%w: audio file too large (%s); maximum size is %s",
				ErrValidation, formatBytes(size), formatBytes(e.maxArtifactBytes)))
	}

	transcript, err := e.transcribe(ctx, job.AudioReference)
	if err != nil {
		return e.fail(ctx, id, models.ErrorKindTranscriptionFailed,
			fmt.Errorf("%w: %w", ErrTranscriptionFailed, err))
	}

	job, err = e.store.Update(ctx, id, func(j *models.Job) error {
		j.Transcript = &transcript
		j.Status = models.JobStatusExtracting
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storing transcript: %w", err)
	}
	e.statusChanged(ctx, job)

	minutes, err := e.extract(ctx, transcript)
	if err != nil {
		return e.fail(ctx, id, models.ErrorKindExtractionFailed,
			fmt.Errorf("%w: %w", ErrExtractionFailed, err))
	}
	minutes.Normalize()
	if violations := ai.CheckConfidence(minutes); len(violations) > 0 {
		slog.Warn("extractor returned out-of-range confidence",
			"job_id", id, "extractor", e.extractor.Name(), "violations", violations)
	}

	job, err = e.store.Update(ctx, id, func(j *models.Job) error {
		j.Results = &minutes
		j.Status = models.JobStatusCompleted
		j.Error = nil
		j.ErrorKind = models.ErrorKindNone
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storing results: %w", err)
	}
	e.statusChanged(ctx, job)

	return job, nil
}

func (e *Engine) transcribe(ctx context.Context, ref string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	text, err := e.transcriber.Transcribe(callCtx, ref)
	if err != nil {
		return "", timeoutAware(callCtx, err)
	}
	slog.Info("transcription finished", "transcriber", e.transcriber.Name(),
		"duration_ms", time.Since(start).Milliseconds(), "chars", len(text))
	return text, nil
}

func (e *Engine) extract(ctx context.Context, transcript string) (models.Minutes, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	minutes, err := e.extractor.Extract(callCtx, transcript)
	if err != nil {
		return models.Minutes{}, timeoutAware(callCtx, err)
	}
	slog.Info("extraction finished", "extractor", e.extractor.Name(),
		"duration_ms", time.Since(start).Milliseconds(),
		"decisions", len(minutes.Decisions), "action_items", len(minutes.ActionItems))
	return minutes, nil
}

// fail moves a job to the error state, keeping any transcript or results from
// earlier attempts, and returns cause.
func (e *Engine) fail(ctx context.Context, id uuid.UUID, kind models.ErrorKind, cause error) (*models.Job, error) {
	msg := cause.Error()
	job, err := e.store.Update(ctx, id, func(j *models.Job) error {
		j.Status = models.JobStatusError
		j.Error = &msg
		j.ErrorKind = kind
		return nil
	})
	if err != nil {
		slog.Error("recording job failure", "job_id", id, "error", err, "cause", msg)
		return nil, cause
	}
	slog.Warn("job failed", "job_id", id, "error_kind", kind, "error", msg)
	e.statusChanged(ctx, job)
	return job, cause
}

// Status returns a snapshot of the job. It never mutates state.
func (e *Engine) Status(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return e.store.Get(ctx, id)
}

// Results returns a snapshot of a completed job.
func (e *Engine) Results(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusCompleted {
		return nil, fmt.Errorf("%w: status %s", ErrNotReady, job.Status)
	}
	return job, nil
}

// Confirm marks a job as reviewed by a human. A non-nil replacement
// overwrites the stored results whatever the job's status.
func (e *Engine) Confirm(ctx context.Context, id uuid.UUID, replacement *models.Minutes) (*models.Job, error) {
	job, err := e.store.Update(ctx, id, func(j *models.Job) error {
		j.Confirmed = true
		if replacement != nil {
			r := replacement.Clone()
			r.Normalize()
			j.Results = r
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("job confirmed", "job_id", id, "edited", replacement != nil, "status", job.Status)
	e.publish(ctx, events.KindConfirmed, job)
	return job, nil
}

// Export renders the job's results as a markdown report and records the
// export on the job.
func (e *Engine) Export(ctx context.Context, id uuid.UUID) (*Report, error) {
	now := time.Now().UTC()
	job, err := e.store.Update(ctx, id, func(j *models.Job) error {
		if j.Results == nil {
			return ErrNoResults
		}
		j.ExportedAt = &now
		j.ExportCount++
		return nil
	})
	if err != nil {
		return nil, err
	}

	md, err := report.Format(job)
	if err != nil {
		return nil, err
	}

	if e.archive != nil {
		rec := &models.ExportRecord{
			ID:         uuid.New(),
			JobID:      job.ID,
			SourceName: job.SourceName,
			Markdown:   md,
			Confirmed:  job.Confirmed,
			ExportedAt: now,
		}
		if err := e.archive.SaveExport(ctx, rec); err != nil {
			slog.Warn("archiving export", "job_id", id, "error", err)
		}
	}
	e.publish(ctx, events.KindExported, job)

	return &Report{Markdown: md, Filename: job.SourceName}, nil
}

// ExportHistory lists the archived exports of a job, newest first. It fails
// with ErrArchiveDisabled when no archive is configured.
func (e *Engine) ExportHistory(ctx context.Context, id uuid.UUID) ([]*models.ExportRecord, error) {
	if _, err := e.store.Get(ctx, id); err != nil {
		return nil, err
	}
	if e.archive == nil {
		return nil, ErrArchiveDisabled
	}
	recs, err := e.archive.ListExports(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing exports: %w", err)
	}
	if recs == nil {
		recs = []*models.ExportRecord{}
	}
	return recs, nil
}

// statusChanged mirrors the new status and emits an event. Side-channel
// failures are logged and never affect the job.
func (e *Engine) statusChanged(ctx context.Context, job *models.Job) {
	slog.Info("job status changed", "job_id", job.ID, "status", job.Status)
	if err := e.cache.SetJobStatus(ctx, job.ID, job.Status, e.statusTTL); err != nil {
		slog.Warn("mirroring job status", "job_id", job.ID, "error", err)
	}
	e.publish(ctx, events.Kind(job.Status), job)
}

func (e *Engine) publish(ctx context.Context, kind events.Kind, job *models.Job) {
	if err := e.publisher.Publish(ctx, events.NewEvent(kind, job)); err != nil {
		slog.Warn("publishing job event", "job_id", job.ID, "kind", kind, "error", err)
	}
}

func timeoutAware(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ai.ErrInferenceTimeout) {
		return fmt.Errorf("%w: %w", ai.ErrInferenceTimeout, err)
	}
	return err
}

func formatBytes(n int64) string {
	const unit = 1 << 20
	if n%unit == 0 {
		return fmt.Sprintf("%dMB", n/unit)
	}
	return fmt.Sprintf("%.1fMB", float64(n)/unit)
}
