package handler

import (
	"net/http"
	"time"

	"github.com/matthewbaird/compliance/internal/calendar"
	"github.com/matthewbaird/compliance/internal/engine"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

// CalendarHandler serves the inspection schedule as iCalendar and as
// day-bucketed JSON for the dashboard calendar view.
type CalendarHandler struct {
	store store.Store
	cfg   ClassifierConfigFn
}

func NewCalendarHandler(s store.Store, cfg ClassifierConfigFn) *CalendarHandler {
	return &CalendarHandler{store: s, cfg: cfg}
}

func (h *CalendarHandler) upcoming(r *http.Request, propertyID string) (*types.Property, []types.InspectionRecord, error) {
	p, err := h.store.GetProperty(r.Context(), propertyID)
	if err != nil {
		return nil, nil, err
	}
	inspections, err := h.store.ListInspections(r.Context(), store.InspectionQuery{PropertyID: propertyID, Limit: 500})
	if err != nil {
		return nil, nil, err
	}
	enriched := engine.EnrichInspections(inspections, time.Now(), h.cfg())

	// Terminal records stay off the calendar.
	var open []types.InspectionRecord
	for _, rec := range enriched {
		if rec.RawStatus.IsTerminal() && rec.RawStatus != types.StatusInProgress {
			continue
		}
		open = append(open, rec)
	}
	return p, open, nil
}

// ExportICS streams the property's open inspections as an iCalendar feed.
func (h *CalendarHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	p, open, err := h.upcoming(r, id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	ics := calendar.Export(*p, open)
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="compliance.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(ics))
}

// GetUpcoming returns the property's open inspections grouped by due day.
func (h *CalendarHandler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	_, open, err := h.upcoming(r, id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	buckets := calendar.BucketByDay(open)
	if buckets == nil {
		buckets = []calendar.DayBucket{}
	}
	writeJSON(w, http.StatusOK, buckets)
}
