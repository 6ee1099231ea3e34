package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blemapper/blemapper-core/internal/web"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Health check
	r.Get("/health", s.handleHealth)

	// Attribute catalog
	r.Route("/attributes", func(r chi.Router) {
		r.Get("/", s.handleListAttributes)
		r.Post("/", s.handleCreateAttribute)

		r.Route("/{uuid}", func(r chi.Router) {
			r.Get("/", s.handleGetAttribute)
			r.Patch("/", s.handleUpdateAttribute)
			r.Delete("/", s.handleDeleteAttribute)
			r.Delete("/force", s.handleForceDeleteAttribute)
			r.Delete("/orphan", s.handleOrphanDeleteAttribute)
		})
	})

	// Log ingestion
	r.Post("/parse-log", s.handleParseLog)
	r.Post("/upload-log", s.handleUploadLog)

	// Demonstration catalog
	r.Post("/sample-data", s.handleSeedSampleData)
	r.Post("/clear-sample-data", s.handleClearSampleData)

	// Landing page (embedded via go:embed)
	r.Handle("/*", web.Handler())

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
