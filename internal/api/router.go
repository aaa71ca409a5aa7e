package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	mw "github.com/kiranshivaraju/minutes/internal/api/middleware"
	"github.com/kiranshivaraju/minutes/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	CORSOrigins []string

	HealthHandler  http.HandlerFunc
	UploadHandler  http.HandlerFunc
	ProcessHandler http.HandlerFunc
	StatusHandler  http.HandlerFunc
	ResultsHandler http.HandlerFunc
	ConfirmHandler http.HandlerFunc
	ExportHandler  http.HandlerFunc
	ExportsHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	r.Post("/upload", orNotImplemented(deps.UploadHandler))

	// Routes addressing a single job
	r.Group(func(r chi.Router) {
		r.Use(mw.JobID)

		r.Post("/process/{job_id}", orNotImplemented(deps.ProcessHandler))
		r.Get("/status/{job_id}", orNotImplemented(deps.StatusHandler))
		r.Get("/results/{job_id}", orNotImplemented(deps.ResultsHandler))
		r.Post("/confirm/{job_id}", orNotImplemented(deps.ConfirmHandler))
		r.Get("/export/{job_id}", orNotImplemented(deps.ExportHandler))
		r.Get("/exports/{job_id}", orNotImplemented(deps.ExportsHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented")
	}
}
