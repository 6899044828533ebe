package handler

import (
	"net/http"
	"time"

	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

// CostHandler implements HTTP handlers for actual cost records.
type CostHandler struct {
	store store.Store
}

func NewCostHandler(s store.Store) *CostHandler {
	return &CostHandler{store: s}
}

type createCostRecordRequest struct {
	PropertyID      string    `json:"property_id"`
	InspectionID    string    `json:"inspection_id,omitempty"`
	InspectionType  string    `json:"inspection_type"`
	ActualCostCents int64     `json:"actual_cost_cents"`
	CompletedDate   time.Time `json:"completed_date"`
}

func (h *CostHandler) CreateCostRecord(w http.ResponseWriter, r *http.Request) {
	var req createCostRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	c := types.CostRecord{
		PropertyID:      req.PropertyID,
		InspectionID:    req.InspectionID,
		InspectionType:  req.InspectionType,
		ActualCostCents: req.ActualCostCents,
		CompletedDate:   req.CompletedDate,
	}
	if err := h.store.CreateCostRecord(r.Context(), &c); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CostHandler) ListCostRecords(w http.ResponseWriter, r *http.Request) {
	pg := parsePagination(r)
	q := store.CostQuery{
		PropertyID: r.URL.Query().Get("property_id"),
		Limit:      pg.Limit,
	}
	items, err := h.store.ListCostRecords(r.Context(), q)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
