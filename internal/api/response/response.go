package response

import (
	"encoding/json"
	"net/http"
)

// Error codes sent alongside every error message.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "JOB_NOT_FOUND"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeNotReady            = "RESULTS_NOT_READY"
	CodeNoResults           = "NO_RESULTS"
	CodeTranscriptionFailed = "TRANSCRIPTION_FAILED"
	CodeExtractionFailed    = "EXTRACTION_FAILED"
	CodeInternal            = "INTERNAL_ERROR"
	CodeArchiveDisabled     = "ARCHIVE_DISABLED"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// JSON writes data as a 200 response body.
func JSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// Status writes data with an explicit status code.
func Status(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

func Error(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
