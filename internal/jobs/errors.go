package jobs

import (
	"errors"

	"github.com/kiranshivaraju/minutes/internal/report"
)

var (
	ErrNotFound            = errors.New("job not found")
	ErrInvalidTransition   = errors.New("invalid job status transition")
	ErrNotReady            = errors.New("results not ready")
	ErrValidation          = errors.New("validation failed")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrExtractionFailed    = errors.New("extraction failed")
	ErrInternal            = errors.New("internal processing error")
	ErrArchiveDisabled     = errors.New("export archive is not configured")
)

// ErrNoResults is returned when exporting a job that has no results.
var ErrNoResults = report.ErrNoResults
