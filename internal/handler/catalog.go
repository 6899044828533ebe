package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/compliance/internal/engine"
)

// CatalogHandler serves the immutable compliance system catalog.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListSystems returns the full catalog, optionally filtered by
// ?jurisdiction=<locale tag>.
func (h *CatalogHandler) ListSystems(w http.ResponseWriter, r *http.Request) {
	if tag := r.URL.Query().Get("jurisdiction"); tag != "" {
		writeJSON(w, http.StatusOK, engine.SystemsForJurisdiction(tag))
		return
	}
	writeJSON(w, http.StatusOK, engine.SystemCatalog)
}

// GetSystem returns one catalog entry by key.
func (h *CatalogHandler) GetSystem(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	def, ok := engine.LookupSystem(key)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown system: "+key)
		return
	}
	writeJSON(w, http.StatusOK, def)
}
