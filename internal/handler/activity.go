package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/compliance/internal/activity"
	"github.com/matthewbaird/compliance/internal/types"
)

// ActivityHandler serves per-entity activity timelines.
type ActivityHandler struct {
	store activity.Store
}

func NewActivityHandler(s activity.Store) *ActivityHandler {
	return &ActivityHandler{store: s}
}

var activityEntityTypes = map[string]bool{
	"property":   true,
	"inspection": true,
	"violation":  true,
}

// GetPropertyTimeline is the property-scoped shorthand for GetTimeline.
func (h *ActivityHandler) GetPropertyTimeline(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	h.queryTimeline(w, r, "property", id)
}

// GetTimeline returns the newest-first activity feed for one entity.
func (h *ActivityHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entityType")
	if !activityEntityTypes[entityType] {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown entity type: "+entityType)
		return
	}
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	h.queryTimeline(w, r, entityType, id)
}

func (h *ActivityHandler) queryTimeline(w http.ResponseWriter, r *http.Request, entityType, id string) {
	pg := parsePagination(r)
	entries, err := h.store.QueryByEntity(r.Context(), entityType, id, activity.QueryOptions{
		Category: r.URL.Query().Get("category"),
		Limit:    pg.Limit,
		Offset:   pg.Offset,
	})
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if entries == nil {
		entries = []types.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
