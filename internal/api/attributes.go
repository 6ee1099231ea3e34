package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blemapper/blemapper-core/internal/attribute"
)

// handleListAttributes returns catalog attributes, with optional query filters.
//
// Query parameters:
//   - search: case-insensitive substring across uuid, vendor, model, description
//   - attribute_type: restrict to service, characteristic or descriptor
//   - show_all: include child attributes (default true; show_all=false
//     returns top-level rows only)
//   - skip, limit: pagination (limit defaults server-side)
func (s *Server) handleListAttributes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := attribute.Filter{
		Search: q.Get("search"),
	}

	if typeStr := q.Get("attribute_type"); typeStr != "" {
		t := attribute.Type(typeStr)
		if !t.Valid() {
			writeBadRequest(w, fmt.Sprintf("unknown attribute_type %q", typeStr))
			return
		}
		filter.Type = t
	}

	if showAll := q.Get("show_all"); showAll != "" {
		v, err := strconv.ParseBool(showAll)
		if err != nil {
			writeBadRequest(w, "show_all must be a boolean")
			return
		}
		filter.TopLevelOnly = !v
	}

	var err error
	if filter.Skip, err = queryInt(q.Get("skip")); err != nil {
		writeBadRequest(w, "skip must be a non-negative integer")
		return
	}
	if filter.Limit, err = queryInt(q.Get("limit")); err != nil {
		writeBadRequest(w, "limit must be a non-negative integer")
		return
	}

	attrs, err := s.repo.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list attributes", "error", err)
		writeInternalError(w, "failed to list attributes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"attributes": attrs, "count": len(attrs)})
}

// handleGetAttribute returns a single attribute by UUID, children attached.
func (s *Server) handleGetAttribute(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	attr, err := s.repo.GetByUUID(r.Context(), uuid)
	if err != nil {
		s.writeAttributeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, attr)
}

// handleCreateAttribute creates a new attribute.
func (s *Server) handleCreateAttribute(w http.ResponseWriter, r *http.Request) {
	var attr attribute.Attribute
	if err := json.NewDecoder(r.Body).Decode(&attr); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.repo.Create(r.Context(), &attr); err != nil {
		s.writeAttributeError(w, err)
		return
	}

	s.publishEvent(r.Context(), "created", attr.UUID, 1)
	writeJSON(w, http.StatusCreated, attr)
}

// handleUpdateAttribute partially updates an attribute.
// Absent fields are left untouched; explicit nulls clear nullable fields.
func (s *Server) handleUpdateAttribute(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	var patch attribute.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	attr, err := s.repo.Update(r.Context(), uuid, patch)
	if err != nil {
		s.writeAttributeError(w, err)
		return
	}

	s.publishEvent(r.Context(), "updated", uuid, 1)
	writeJSON(w, http.StatusOK, attr)
}

// handleDeleteAttribute removes an attribute in plain mode.
// Deleting a service that still has children fails with 409.
func (s *Server) handleDeleteAttribute(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	if err := s.repo.Delete(r.Context(), uuid); err != nil {
		s.writeAttributeError(w, err)
		return
	}

	s.publishEvent(r.Context(), "deleted", uuid, 1)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "attribute deleted",
	})
}

// handleForceDeleteAttribute removes a service and all of its children.
func (s *Server) handleForceDeleteAttribute(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	removed, err := s.repo.ForceDelete(r.Context(), uuid)
	if err != nil {
		s.writeAttributeError(w, err)
		return
	}

	s.publishEvent(r.Context(), "deleted", uuid, removed+1)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "attribute and children deleted",
		"children_removed": removed,
	})
}

// handleOrphanDeleteAttribute detaches a service's children, then removes it.
func (s *Server) handleOrphanDeleteAttribute(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	orphaned, err := s.repo.OrphanDelete(r.Context(), uuid)
	if err != nil {
		s.writeAttributeError(w, err)
		return
	}

	s.publishEvent(r.Context(), "deleted", uuid, 1)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":           "attribute deleted, children detached",
		"children_orphaned": orphaned,
	})
}

// writeAttributeError maps repository errors to HTTP responses.
func (s *Server) writeAttributeError(w http.ResponseWriter, err error) {
	var childErr *attribute.ChildrenError
	switch {
	case errors.Is(err, attribute.ErrNotFound):
		writeNotFound(w, "attribute not found")
	case errors.As(err, &childErr):
		writeConflict(w, childErr.Error())
	case errors.Is(err, attribute.ErrExists),
		errors.Is(err, attribute.ErrMissingParent),
		errors.Is(err, attribute.ErrInvalidParent),
		errors.Is(err, attribute.ErrInvalidType),
		errors.Is(err, attribute.ErrInvalidUUID),
		errors.Is(err, attribute.ErrNotService):
		writeBadRequest(w, err.Error())
	default:
		s.logger.Error("attribute operation failed", "error", err)
		writeInternalError(w, "internal server error")
	}
}

// queryInt parses a pagination query parameter. Empty means zero.
func queryInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	return n, nil
}
