package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/minutes/internal/api/response"
	"github.com/kiranshivaraju/minutes/internal/upload"
	"github.com/kiranshivaraju/minutes/pkg/models"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temp files.
const multipartMemory = 32 << 20

const uploadMessage = "File uploaded successfully. Call /process to start."

// Uploads stores audio artifacts and returns a reference to them.
type Uploads interface {
	Save(name string, r io.Reader) (string, error)
}

type uploadResponse struct {
	JobID   uuid.UUID     `json:"job_id"`
	Status  models.Status `json:"status"`
	Message string        `json:"message"`
}

// NewUploadHandler returns an http.HandlerFunc for POST /upload. The audio
// file is read from the multipart field "audio".
func NewUploadHandler(svc Jobs, store Uploads, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooBig *http.MaxBytesError
			switch {
			case errors.As(err, &tooBig):
				response.Error(w, http.StatusBadRequest, response.CodeValidation,
					fmt.Sprintf("upload exceeds the %d byte limit", maxBytes))
			case errors.Is(err, http.ErrNotMultipart):
				response.Error(w, http.StatusBadRequest, response.CodeValidation, upload.ErrNoFile.Error())
			default:
				response.Error(w, http.StatusBadRequest, response.CodeValidation, "Invalid multipart body")
			}
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, hdr, err := r.FormFile("audio")
		if err != nil {
			response.Error(w, http.StatusBadRequest, response.CodeValidation, upload.ErrNoFile.Error())
			return
		}
		defer file.Close()

		if err := upload.Validate(hdr.Filename); err != nil {
			response.Error(w, http.StatusBadRequest, response.CodeValidation, err.Error())
			return
		}
		if hdr.Size == 0 {
			response.Error(w, http.StatusBadRequest, response.CodeValidation, upload.ErrEmptyFile.Error())
			return
		}

		ref, err := store.Save(hdr.Filename, file)
		if err != nil {
			slog.Error("saving upload", "filename", hdr.Filename, "error", err)
			response.Error(w, http.StatusInternalServerError, response.CodeInternal, "Could not store upload")
			return
		}

		job, err := svc.Create(r.Context(), ref, hdr.Filename)
		if err != nil {
			writeJobError(w, r, err)
			return
		}

		response.JSON(w, uploadResponse{
			JobID:   job.ID,
			Status:  job.Status,
			Message: uploadMessage,
		})
	}
}
