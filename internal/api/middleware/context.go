package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/minutes/internal/api/response"
)

type contextKey string

const jobIDKey contextKey = "job_id"

// JobIDParam is the chi URL parameter holding the job id.
const JobIDParam = "job_id"

func SetJobID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, jobIDKey, id)
}

func GetJobID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(jobIDKey).(uuid.UUID)
	return id, ok
}

// JobID parses the {job_id} URL parameter into the request context. A
// malformed id can never name a job, so it is answered with 404.
func JobID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, JobIDParam))
		if err != nil {
			response.Error(w, http.StatusNotFound, response.CodeNotFound, "Job not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(SetJobID(r.Context(), id)))
	})
}
