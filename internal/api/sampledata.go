package api

import (
	"net/http"

	"github.com/blemapper/blemapper-core/internal/seed"
)

// handleSeedSampleData loads the demonstration catalog.
// Records whose UUID already exists are left untouched, so repeat calls
// are safe.
func (s *Server) handleSeedSampleData(w http.ResponseWriter, r *http.Request) {
	created, skipped, err := seed.Apply(r.Context(), s.repo)
	if err != nil {
		s.logger.Error("failed to seed sample data", "error", err)
		writeInternalError(w, "failed to seed sample data")
		return
	}

	s.publishEvent(r.Context(), "seeded", "", created)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "sample data loaded",
		"created": created,
		"skipped": skipped,
	})
}

// handleClearSampleData removes every record belonging to a seed vendor.
func (s *Server) handleClearSampleData(w http.ResponseWriter, r *http.Request) {
	removed, err := seed.Clear(r.Context(), s.repo)
	if err != nil {
		s.logger.Error("failed to clear sample data", "error", err)
		writeInternalError(w, "failed to clear sample data")
		return
	}

	s.publishEvent(r.Context(), "cleared", "", removed)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "sample data cleared",
		"removed": removed,
	})
}
