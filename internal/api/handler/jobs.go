package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/minutes/internal/api/middleware"
	"github.com/kiranshivaraju/minutes/internal/api/response"
	"github.com/kiranshivaraju/minutes/internal/jobs"
	"github.com/kiranshivaraju/minutes/pkg/models"
)

// maxConfirmBody caps the JSON body accepted by the confirm endpoint.
const maxConfirmBody = 1 << 20

// Jobs defines the lifecycle operations the handlers depend on.
type Jobs interface {
	Create(ctx context.Context, audioRef, sourceName string) (*models.Job, error)
	Process(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Status(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Results(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Confirm(ctx context.Context, id uuid.UUID, replacement *models.Minutes) (*models.Job, error)
	Export(ctx context.Context, id uuid.UUID) (*jobs.Report, error)
	ExportHistory(ctx context.Context, id uuid.UUID) ([]*models.ExportRecord, error)
}

type processResponse struct {
	JobID      uuid.UUID       `json:"job_id"`
	Status     models.Status   `json:"status"`
	Transcript *string         `json:"transcript"`
	Results    *models.Minutes `json:"results"`
}

type statusResponse struct {
	JobID     uuid.UUID        `json:"job_id"`
	Status    models.Status    `json:"status"`
	Filename  string           `json:"filename"`
	Confirmed bool             `json:"confirmed"`
	Error     *string          `json:"error"`
	ErrorKind models.ErrorKind `json:"error_kind"`
}

type resultsResponse struct {
	JobID      uuid.UUID       `json:"job_id"`
	Transcript *string         `json:"transcript"`
	Results    *models.Minutes `json:"results"`
	Confirmed  bool            `json:"confirmed"`
}

type confirmResponse struct {
	JobID   uuid.UUID       `json:"job_id"`
	Status  string          `json:"status"`
	Results *models.Minutes `json:"results"`
}

type exportResponse struct {
	Markdown string `json:"markdown"`
	Filename string `json:"filename"`
}

type exportHistoryResponse struct {
	JobID   uuid.UUID              `json:"job_id"`
	Exports []*models.ExportRecord `json:"exports"`
}

// NewProcessHandler returns an http.HandlerFunc for POST /process/{job_id}.
// The request blocks until the pipeline finishes.
func NewProcessHandler(svc Jobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := mw.GetJobID(r)
		if !ok {
			response.Error(w, http.StatusNotFound, response.CodeNotFound, "Job not found")
			return
		}

		job, err := svc.Process(r.Context(), id)
		if err != nil {
			writeJobError(w, r, err)
			return
		}

		response.JSON(w, processResponse{
			JobID:      job.ID,
			Status:     job.Status,
			Transcript: job.Transcript,
			Results:    job.Results,
		})
	}
}

// NewStatusHandler returns an http.HandlerFunc for GET /status/{job_id}.
func NewStatusHandler(svc Jobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := mw.GetJobID(r)
		if !ok {
			response.Error(w, http.StatusNotFound, response.CodeNotFound, "Job not found")
			return
		}

		job, err := svc.Status(r.Context(), id)
		if err != nil {
			writeJobError(w, r, err)
			return
		}

		response.JSON(w, statusResponse{
			JobID:     job.ID,
			Status:    job.Status,
			Filename:  job.SourceName,
			Confirmed: job.Confirmed,
			Error:     job.Error,
			ErrorKind: job.ErrorKind,
		})
	}
}

// NewResultsHandler returns an http.HandlerFunc for GET /results/{job_id}.
func NewResultsHandler(svc Jobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := mw.GetJobID(r)
		if !ok {
			response.Error(w, http.StatusNotFound, response.CodeNotFound, "Job not found")
			return
		}

		job, err := svc.Results(r.Context(), id)
		if err != nil {
			writeJobError(w, r, err)
			return
		}

		response.JSON(w, resultsResponse{
			JobID:      job.ID,
			Transcript: job.Transcript,
			Results:    job.Results,
			Confirmed:  job.Confirmed,
		})
	}
}

// NewConfirmHandler returns an http.HandlerFunc for POST /confirm/{job_id}.
// The body is optional; {"results": {...}} replaces the stored minutes.
func NewConfirmHandler(svc Jobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := mw.GetJobID(r)
		if !ok {
			response.Error(w, http.StatusNotFound, response.CodeNotFound, "Job not found")
			return
		}

		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfirmBody))
		if err != nil {
			response.Error(w, http.StatusBadRequest, response.CodeValidation, "Request body too large")
			return
		}

		var req struct {
			Results *models.Minutes `json:"results"`
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &req); err != nil {
				response.Error(w, http.StatusBadRequest, response.CodeValidation, "Invalid JSON body")
				return
			}
		}

		job, err := svc.Confirm(r.Context(), id, req.Results)
		if err != nil {
			writeJobError(w, r, err)
			return
		}

		response.JSON(w, confirmResponse{
			JobID:   job.ID,
			Status:  "confirmed",
			Results: job.Results,
		})
	}
}

// NewExportHandler returns an http.HandlerFunc for GET /export/{job_id}.
func NewExportHandler(svc Jobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := mw.GetJobID(r)
		if !ok {
			response.Error(w, http.StatusNotFound, response.CodeNotFound, "Job not found")
			return
		}

		rep, err := svc.Export(r.Context(), id)
		if err != nil {
			writeJobError(w, r, err)
			return
		}

		response.JSON(w, exportResponse{Markdown: rep.Markdown, Filename: rep.Filename})
	}
}

// NewExportHistoryHandler returns an http.HandlerFunc for GET /exports/{job_id}.
func NewExportHistoryHandler(svc Jobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := mw.GetJobID(r)
		if !ok {
			response.Error(w, http.StatusNotFound, response.CodeNotFound, "Job not found")
			return
		}

		recs, err := svc.ExportHistory(r.Context(), id)
		if err != nil {
			writeJobError(w, r, err)
			return
		}

		response.JSON(w, exportHistoryResponse{JobID: id, Exports: recs})
	}
}

// writeJobError maps engine errors onto status codes. Processing failures
// carry the message recorded on the job.
func writeJobError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, jobs.ErrNotFound):
		response.Error(w, http.StatusNotFound, response.CodeNotFound, "Job not found")
	case errors.Is(err, jobs.ErrInvalidTransition):
		response.Error(w, http.StatusBadRequest, response.CodeInvalidTransition, err.Error())
	case errors.Is(err, jobs.ErrNotReady):
		response.Error(w, http.StatusBadRequest, response.CodeNotReady, err.Error())
	case errors.Is(err, jobs.ErrNoResults):
		response.Error(w, http.StatusBadRequest, response.CodeNoResults, err.Error())
	case errors.Is(err, jobs.ErrValidation):
		response.Error(w, http.StatusInternalServerError, response.CodeValidation, err.Error())
	case errors.Is(err, jobs.ErrTranscriptionFailed):
		response.Error(w, http.StatusInternalServerError, response.CodeTranscriptionFailed, err.Error())
	case errors.Is(err, jobs.ErrExtractionFailed):
		response.Error(w, http.StatusInternalServerError, response.CodeExtractionFailed, err.Error())
	case errors.Is(err, jobs.ErrArchiveDisabled):
		response.Error(w, http.StatusNotImplemented, response.CodeArchiveDisabled, err.Error())
	case errors.Is(err, jobs.ErrInternal):
		response.Error(w, http.StatusInternalServerError, response.CodeInternal, err.Error())
	default:
		slog.Error("unexpected handler error", "method", r.Method, "path", r.URL.Path, "error", err)
		response.Error(w, http.StatusInternalServerError, response.CodeInternal, "An unexpected error occurred")
	}
}
