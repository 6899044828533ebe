package handler

import (
	"net/http"
	"time"

	"github.com/matthewbaird/compliance/internal/engine"
	"github.com/matthewbaird/compliance/internal/event"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

// ClassifierConfigFn supplies the current classifier configuration. A
// function rather than a value so config reloads take effect without
// rebuilding handlers.
type ClassifierConfigFn func() engine.ClassifierConfig

// PropertyHandler implements HTTP handlers for properties and their
// compliance system attachments.
type PropertyHandler struct {
	store store.Store
	cfg   ClassifierConfigFn
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(s store.Store, cfg ClassifierConfigFn) *PropertyHandler {
	return &PropertyHandler{store: s, cfg: cfg}
}

type createPropertyRequest struct {
	Name         string        `json:"name"`
	Address      types.Address `json:"address"`
	PropertyType string        `json:"property_type"`
	Jurisdiction string        `json:"jurisdiction,omitempty"`
	UnitCount    int           `json:"unit_count,omitempty"`
	YearBuilt    int           `json:"year_built,omitempty"`
	// SystemKeys optionally attaches catalog systems at creation time.
	SystemKeys []string `json:"system_keys,omitempty"`
}

func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	p := types.Property{
		Name:         req.Name,
		Address:      req.Address,
		PropertyType: req.PropertyType,
		Jurisdiction: req.Jurisdiction,
		UnitCount:    req.UnitCount,
		YearBuilt:    req.YearBuilt,
	}
	if err := h.store.CreateProperty(r.Context(), &p); err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	attached, failures := h.attachSystems(r, p, req.SystemKeys)

	recordEvent(r.Context(), event.NewPropertyOnboarded(event.PropertyOnboardedPayload{
		PropertyID:   p.ID,
		Name:         p.Name,
		Jurisdiction: p.Jurisdiction,
		SystemCount:  len(attached),
	}))

	writeJSON(w, http.StatusCreated, map[string]any{
		"property":         p,
		"attached_systems": attached,
		"failed_systems":   failures,
	})
}

func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.store.GetProperty(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	pg := parsePagination(r)
	items, err := h.store.ListProperties(r.Context(), pg.Limit, pg.Offset)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type updatePropertyRequest struct {
	Name         *string        `json:"name,omitempty"`
	Address      *types.Address `json:"address,omitempty"`
	PropertyType *string        `json:"property_type,omitempty"`
	Jurisdiction *string        `json:"jurisdiction,omitempty"`
	UnitCount    *int           `json:"unit_count,omitempty"`
	YearBuilt    *int           `json:"year_built,omitempty"`
}

func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req updatePropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	p, err := h.store.GetProperty(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.PropertyType != nil {
		p.PropertyType = *req.PropertyType
	}
	if req.Jurisdiction != nil {
		p.Jurisdiction = *req.Jurisdiction
	}
	if req.UnitCount != nil {
		p.UnitCount = *req.UnitCount
	}
	if req.YearBuilt != nil {
		p.YearBuilt = *req.YearBuilt
	}
	if err := h.store.UpdateProperty(r.Context(), p); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type attachSystemsRequest struct {
	SystemKeys []string `json:"system_keys"`
	// FirstDueDate overrides the default first cycle (one frequency
	// interval from today) for every attached system.
	FirstDueDate *time.Time `json:"first_due_date,omitempty"`
}

// AttachSystems creates inspection records from catalog system definitions.
func (h *PropertyHandler) AttachSystems(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.store.GetProperty(r.Context(), id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	var req attachSystemsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if len(req.SystemKeys) == 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "system_keys is required")
		return
	}

	attached, failures := h.attachSystemsAt(r, *p, req.SystemKeys, req.FirstDueDate)
	status := http.StatusCreated
	if len(attached) == 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{
		"attached_systems": attached,
		"failed_systems":   failures,
	})
}

func (h *PropertyHandler) attachSystems(r *http.Request, p types.Property, keys []string) ([]types.InspectionRecord, []string) {
	return h.attachSystemsAt(r, p, keys, nil)
}

func (h *PropertyHandler) attachSystemsAt(r *http.Request, p types.Property, keys []string, firstDue *time.Time) ([]types.InspectionRecord, []string) {
	var attached []types.InspectionRecord
	var failures []string
	for _, key := range keys {
		def, ok := engine.LookupSystem(key)
		if !ok {
			failures = append(failures, key)
			continue
		}
		due := engine.NextDueDate(def.Frequency, time.Now())
		if firstDue != nil {
			due = *firstDue
		}
		rec := types.InspectionRecord{
			PropertyID:     p.ID,
			SystemKey:      def.Key,
			InspectionType: def.Name,
			Category:       def.Category,
			Authority:      def.Authority,
			Frequency:      def.Frequency,
			NextDueDate:    due,
			RawStatus:      types.StatusScheduled,
			EstimatedCost:  def.EstimatedCost,
		}
		if err := h.store.CreateInspection(r.Context(), &rec); err != nil {
			failures = append(failures, key)
			continue
		}
		recordEvent(r.Context(), event.NewInspectionScheduled(event.InspectionScheduledPayload{
			InspectionID:   rec.ID,
			PropertyID:     p.ID,
			SystemKey:      rec.SystemKey,
			InspectionType: rec.InspectionType,
			Frequency:      rec.Frequency,
			NextDueDate:    rec.NextDueDate,
		}))
		attached = append(attached, rec)
	}
	return attached, failures
}
