package handler

import (
	"net/http"
	"time"

	"github.com/matthewbaird/compliance/internal/engine"
	"github.com/matthewbaird/compliance/internal/event"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

// InspectionHandler implements HTTP handlers for inspection records.
// Every read path returns classifier-enriched records.
type InspectionHandler struct {
	store store.Store
	cfg   ClassifierConfigFn
}

func NewInspectionHandler(s store.Store, cfg ClassifierConfigFn) *InspectionHandler {
	return &InspectionHandler{store: s, cfg: cfg}
}

type createInspectionRequest struct {
	PropertyID     string          `json:"property_id"`
	InspectionType string          `json:"inspection_type"`
	Category       string          `json:"category"`
	Authority      string          `json:"authority,omitempty"`
	Frequency      types.Frequency `json:"frequency"`
	NextDueDate    time.Time       `json:"next_due_date"`
	EstimatedCost  types.CostRange `json:"estimated_cost"`
}

func (h *InspectionHandler) CreateInspection(w http.ResponseWriter, r *http.Request) {
	var req createInspectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	rec := types.InspectionRecord{
		PropertyID:     req.PropertyID,
		InspectionType: req.InspectionType,
		Category:       req.Category,
		Authority:      req.Authority,
		Frequency:      req.Frequency,
		NextDueDate:    req.NextDueDate,
		RawStatus:      types.StatusScheduled,
		EstimatedCost:  req.EstimatedCost,
	}
	if err := h.store.CreateInspection(r.Context(), &rec); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	recordEvent(r.Context(), event.NewInspectionScheduled(event.InspectionScheduledPayload{
		InspectionID:   rec.ID,
		PropertyID:     rec.PropertyID,
		InspectionType: rec.InspectionType,
		Frequency:      rec.Frequency,
		NextDueDate:    rec.NextDueDate,
	}))
	writeJSON(w, http.StatusCreated, h.enrichOne(rec))
}

func (h *InspectionHandler) GetInspection(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	rec, err := h.store.GetInspection(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.enrichOne(*rec))
}

func (h *InspectionHandler) ListInspections(w http.ResponseWriter, r *http.Request) {
	pg := parsePagination(r)
	q := store.InspectionQuery{
		PropertyID: r.URL.Query().Get("property_id"),
		RawStatus:  types.Status(r.URL.Query().Get("status")),
		Limit:      pg.Limit,
		Offset:     pg.Offset,
	}
	items, err := h.store.ListInspections(r.Context(), q)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	enriched := engine.EnrichInspections(items, time.Now(), h.cfg())

	// Optional filter on the derived status, applied after enrichment.
	if derived := r.URL.Query().Get("calculated_status"); derived != "" {
		var filtered []types.InspectionRecord
		for _, rec := range enriched {
			if rec.CalculatedStatus == types.Status(derived) {
				filtered = append(filtered, rec)
			}
		}
		enriched = filtered
	}
	writeJSON(w, http.StatusOK, enriched)
}

type updateInspectionRequest struct {
	InspectionType *string          `json:"inspection_type,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Authority      *string          `json:"authority,omitempty"`
	Frequency      *types.Frequency `json:"frequency,omitempty"`
	NextDueDate    *time.Time       `json:"next_due_date,omitempty"`
	RawStatus      *types.Status    `json:"status,omitempty"`
	EstimatedCost  *types.CostRange `json:"estimated_cost,omitempty"`
}

func (h *InspectionHandler) UpdateInspection(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req updateInspectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	rec, err := h.store.GetInspection(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if req.RawStatus != nil {
		if err := ValidateTransition(inspectionTransitions, string(rec.RawStatus), string(*req.RawStatus)); err != nil {
			writeError(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
			return
		}
		rec.RawStatus = *req.RawStatus
	}
	if req.InspectionType != nil {
		rec.InspectionType = *req.InspectionType
	}
	if req.Category != nil {
		rec.Category = *req.Category
	}
	if req.Authority != nil {
		rec.Authority = *req.Authority
	}
	if req.Frequency != nil {
		rec.Frequency = *req.Frequency
	}
	if req.NextDueDate != nil {
		rec.NextDueDate = *req.NextDueDate
	}
	if req.EstimatedCost != nil {
		rec.EstimatedCost = *req.EstimatedCost
	}
	if err := h.store.UpdateInspection(r.Context(), rec); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.enrichOne(*rec))
}

type completeInspectionRequest struct {
	CompletedDate   *time.Time `json:"completed_date,omitempty"`
	ActualCostCents int64      `json:"actual_cost_cents,omitempty"`
}

// CompleteInspection marks an inspection done and rolls it forward one
// recurrence interval from the completion date.
func (h *InspectionHandler) CompleteInspection(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req completeInspectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	rec, err := h.store.GetInspection(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if err := ValidateTransition(inspectionTransitions, string(rec.RawStatus), string(types.StatusCompleted)); err != nil {
		writeError(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}

	completed := time.Now()
	if req.CompletedDate != nil {
		completed = *req.CompletedDate
	}
	rec.LastCompletedDate = &completed
	rec.NextDueDate = engine.NextDueDate(rec.Frequency, completed)
	rec.RawStatus = types.StatusScheduled
	if err := h.store.UpdateInspection(r.Context(), rec); err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	if req.ActualCostCents > 0 {
		cost := types.CostRecord{
			PropertyID:      rec.PropertyID,
			InspectionID:    rec.ID,
			InspectionType:  rec.InspectionType,
			ActualCostCents: req.ActualCostCents,
			CompletedDate:   completed,
		}
		if err := h.store.CreateCostRecord(r.Context(), &cost); err != nil {
			storeErrorToHTTP(w, err)
			return
		}
	}

	recordEvent(r.Context(), event.NewInspectionCompleted(event.InspectionCompletedPayload{
		InspectionID:    rec.ID,
		PropertyID:      rec.PropertyID,
		InspectionType:  rec.InspectionType,
		CompletedDate:   completed,
		NextDueDate:     rec.NextDueDate,
		ActualCostCents: req.ActualCostCents,
	}))
	writeJSON(w, http.StatusOK, h.enrichOne(*rec))
}

func (h *InspectionHandler) enrichOne(rec types.InspectionRecord) types.InspectionRecord {
	enriched := engine.EnrichInspections([]types.InspectionRecord{rec}, time.Now(), h.cfg())
	return enriched[0]
}
