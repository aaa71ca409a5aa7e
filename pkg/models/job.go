package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a Job.
type Status string

const (
	JobStatusUploaded     Status = "uploaded"
	JobStatusTranscribing Status = "transcribing"
	JobStatusExtracting   Status = "extracting"
	JobStatusCompleted    Status = "completed"
	JobStatusError        Status = "error"
)

// Processable reports whether process may start from this status.
func (s Status) Processable() bool {
	return s == JobStatusUploaded || s == JobStatusError
}

// InFlight reports whether the pipeline is currently running for a job.
func (s Status) InFlight() bool {
	return s == JobStatusTranscribing || s == JobStatusExtracting
}

// ErrorKind classifies why a job ended up in the error state. The
// human-readable message is kept separately in Job.Error.
type ErrorKind string

const (
	ErrorKindNone                ErrorKind = ""
	ErrorKindValidation          ErrorKind = "validation"
	ErrorKindTranscriptionFailed ErrorKind = "transcription_failed"
	ErrorKindExtractionFailed    ErrorKind = "extraction_failed"
	ErrorKindInternal            ErrorKind = "internal"
)

// Job tracks one meeting recording from upload through export. The client
// uploads, calls process, then polls status until completed or error.
type Job struct {
	ID             uuid.UUID  `json:"job_id"`
	Status         Status     `json:"status"`
	AudioReference string     `json:"-"`
	SourceName     string     `json:"filename"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Transcript     *string    `json:"transcript"`
	Results        *Minutes   `json:"results"`
	Confirmed      bool       `json:"confirmed"`
	Error          *string    `json:"error"`
	ErrorKind      ErrorKind  `json:"error_kind,omitempty"`
	ExportedAt     *time.Time `json:"exported_at,omitempty"`
	ExportCount    int        `json:"export_count"`
}

// Clone returns a deep copy so callers never share mutable state with the
// store.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	if j.Transcript != nil {
		t := *j.Transcript
		c.Transcript = &t
	}
	if j.Error != nil {
		e := *j.Error
		c.Error = &e
	}
	if j.ExportedAt != nil {
		at := *j.ExportedAt
		c.ExportedAt = &at
	}
	c.Results = j.Results.Clone()
	return &c
}
