package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/blemapper/blemapper-core/internal/logparse"
)

// parseLogRequest is the body for POST /parse-log.
type parseLogRequest struct {
	LogText     string `json:"log_text"`
	Vendor      string `json:"vendor"`
	Model       string `json:"model"`
	Description string `json:"description"`
}

// handleParseLog extracts services and characteristics from pasted log text
// and persists them as one batch.
func (s *Server) handleParseLog(w http.ResponseWriter, r *http.Request) {
	var req parseLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.LogText) == "" {
		writeBadRequest(w, "log_text is required")
		return
	}

	result := s.parser.Parse(req.LogText, logparse.Hints{
		Vendor:      req.Vendor,
		Model:       req.Model,
		Description: req.Description,
	})
	drafts := result.Drafts()

	if len(drafts) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":    "no attributes recognised in log",
			"attributes": drafts,
			"count":      0,
		})
		return
	}

	if err := s.repo.CreateBatch(r.Context(), drafts); err != nil {
		s.writeAttributeError(w, err)
		return
	}

	s.publishEvent(r.Context(), "parsed", "", len(drafts))
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "log parsed",
		"attributes": drafts,
		"count":      len(drafts),
	})
}

// handleUploadLog accepts a log file upload and acknowledges receipt.
// The file is decoded and validated but not persisted; clients paste the
// content into /parse-log for extraction.
func (s *Server) handleUploadLog(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeBadRequest(w, "failed to read uploaded file")
		return
	}
	if !utf8.Valid(content) {
		writeBadRequest(w, "uploaded file is not valid text")
		return
	}

	s.logger.Info("log file received",
		"filename", header.Filename,
		"size_bytes", len(content),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "log file received",
		"filename":   header.Filename,
		"size_bytes": len(content),
	})
}
