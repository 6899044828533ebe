package handler

import (
	"net/http"
	"time"

	"github.com/matthewbaird/compliance/internal/engine"
	"github.com/matthewbaird/compliance/internal/event"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

// ViolationHandler implements HTTP handlers for violations.
type ViolationHandler struct {
	store store.Store
}

func NewViolationHandler(s store.Store) *ViolationHandler {
	return &ViolationHandler{store: s}
}

type createViolationRequest struct {
	PropertyID  string         `json:"property_id"`
	Category    string         `json:"category"`
	Description string         `json:"description,omitempty"`
	Severity    types.Severity `json:"severity,omitempty"`
	// RiskCategory is the raw jurisdiction category (e.g. "FIRE"); used to
	// infer severity when no explicit tier is given.
	RiskCategory string    `json:"risk_category,omitempty"`
	IssuedDate   time.Time `json:"issued_date"`
}

func (h *ViolationHandler) CreateViolation(w http.ResponseWriter, r *http.Request) {
	var req createViolationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	v := types.Violation{
		PropertyID:   req.PropertyID,
		Category:     req.Category,
		Description:  req.Description,
		Severity:     req.Severity,
		RiskCategory: req.RiskCategory,
		IssuedDate:   req.IssuedDate,
		Status:       types.ViolationOpen,
	}
	v.Severity = engine.NormalizeSeverity(v)
	if err := h.store.CreateViolation(r.Context(), &v); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	recordEvent(r.Context(), event.NewViolationIssued(event.ViolationIssuedPayload{
		ViolationID: v.ID,
		PropertyID:  v.PropertyID,
		Category:    v.Category,
		Severity:    v.Severity,
		IssuedDate:  v.IssuedDate,
	}))
	writeJSON(w, http.StatusCreated, v)
}

func (h *ViolationHandler) GetViolation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.store.GetViolation(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *ViolationHandler) ListViolations(w http.ResponseWriter, r *http.Request) {
	pg := parsePagination(r)
	q := store.ViolationQuery{
		PropertyID: r.URL.Query().Get("property_id"),
		Status:     types.ViolationStatus(r.URL.Query().Get("status")),
		Severity:   types.Severity(r.URL.Query().Get("severity")),
		Limit:      pg.Limit,
		Offset:     pg.Offset,
	}
	items, err := h.store.ListViolations(r.Context(), q)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type updateViolationRequest struct {
	Category    *string         `json:"category,omitempty"`
	Description *string         `json:"description,omitempty"`
	Severity    *types.Severity `json:"severity,omitempty"`
}

func (h *ViolationHandler) UpdateViolation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req updateViolationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	v, err := h.store.GetViolation(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if req.Category != nil {
		v.Category = *req.Category
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.Severity != nil {
		v.Severity = *req.Severity
	}
	if err := h.store.UpdateViolation(r.Context(), v); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type resolveViolationRequest struct {
	ResolutionDate *time.Time `json:"resolution_date,omitempty"`
}

// ResolveViolation closes an open violation.
func (h *ViolationHandler) ResolveViolation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req resolveViolationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	v, err := h.store.GetViolation(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if err := ValidateTransition(violationTransitions, string(v.Status), string(types.ViolationClosed)); err != nil {
		writeError(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}
	resolved := time.Now()
	if req.ResolutionDate != nil {
		resolved = *req.ResolutionDate
	}
	v.Status = types.ViolationClosed
	v.ResolutionDate = &resolved
	if err := h.store.UpdateViolation(r.Context(), v); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	recordEvent(r.Context(), event.NewViolationResolved(event.ViolationResolvedPayload{
		ViolationID:    v.ID,
		PropertyID:     v.PropertyID,
		Category:       v.Category,
		ResolutionDate: resolved,
	}))
	writeJSON(w, http.StatusOK, v)
}
