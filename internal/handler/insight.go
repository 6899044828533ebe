package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/matthewbaird/compliance/internal/engine"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

// InsightHandler serves the derived read models: risk assessments, trends,
// recommendations and the portfolio dashboard summary. Everything here is
// recomputed per request from stored records.
type InsightHandler struct {
	store store.Store
	cfg   ClassifierConfigFn
}

func NewInsightHandler(s store.Store, cfg ClassifierConfigFn) *InsightHandler {
	return &InsightHandler{store: s, cfg: cfg}
}

func (h *InsightHandler) propertyRecords(r *http.Request, propertyID string) ([]types.InspectionRecord, []types.Violation, error) {
	inspections, err := h.store.ListInspections(r.Context(), store.InspectionQuery{PropertyID: propertyID, Limit: 500})
	if err != nil {
		return nil, nil, err
	}
	violations, err := h.store.ListViolations(r.Context(), store.ViolationQuery{PropertyID: propertyID, Limit: 500})
	if err != nil {
		return nil, nil, err
	}
	return engine.EnrichInspections(inspections, time.Now(), h.cfg()), violations, nil
}

// GetPropertyRisk returns the current risk assessment for one property.
func (h *InsightHandler) GetPropertyRisk(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.store.GetProperty(r.Context(), id); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	inspections, violations, err := h.propertyRecords(r, id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.AggregateRisk(inspections, violations))
}

// GetPropertyTrends compares the trailing period against the one before it.
// The period length defaults to 30 days; override with ?period_days=N.
func (h *InsightHandler) GetPropertyTrends(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.store.GetProperty(r.Context(), id); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	periodDays := 30
	for _, param := range []string{"period_days", "window"} {
		if v := r.URL.Query().Get(param); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
				periodDays = n
			}
		}
	}

	now := time.Now()
	periodStart := now.AddDate(0, 0, -periodDays)
	priorStart := now.AddDate(0, 0, -2*periodDays)

	current, err := h.periodCounts(r, id, periodStart, now)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	prior, err := h.periodCounts(r, id, priorStart, periodStart)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"period_days":    periodDays,
		"current_period": current,
		"prior_period":   prior,
		"trends":         engine.Trend(current, prior),
	})
}

func (h *InsightHandler) periodCounts(r *http.Request, propertyID string, from, to time.Time) (engine.PeriodCounts, error) {
	inspections, err := h.store.ListInspections(r.Context(), store.InspectionQuery{
		PropertyID: propertyID,
		DueAfter:   &from,
		DueBefore:  &to,
		Limit:      500,
	})
	if err != nil {
		return engine.PeriodCounts{}, err
	}
	violations, err := h.store.ListViolations(r.Context(), store.ViolationQuery{
		PropertyID:   propertyID,
		IssuedAfter:  &from,
		IssuedBefore: &to,
		Limit:        500,
	})
	if err != nil {
		return engine.PeriodCounts{}, err
	}
	return engine.CountPeriod(inspections, violations), nil
}

// GetPropertyRecommendations runs the recommendation rules for one property.
func (h *InsightHandler) GetPropertyRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.store.GetProperty(r.Context(), id); err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	inspections, violations, err := h.propertyRecords(r, id)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	costs, err := h.store.ListCostRecords(r.Context(), store.CostQuery{PropertyID: id, Limit: 500})
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	recs := engine.Recommend(inspections, violations, costs)
	if recs == nil {
		recs = []types.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// GetPortfolioRisk aggregates risk across every property's records.
func (h *InsightHandler) GetPortfolioRisk(w http.ResponseWriter, r *http.Request) {
	properties, err := h.store.ListProperties(r.Context(), 500, 0)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}
	var inspections []types.InspectionRecord
	var violations []types.Violation
	for _, p := range properties {
		ins, vio, err := h.propertyRecords(r, p.ID)
		if err != nil {
			storeErrorToHTTP(w, err)
			return
		}
		inspections = append(inspections, ins...)
		violations = append(violations, vio...)
	}
	writeJSON(w, http.StatusOK, engine.AggregateRisk(inspections, violations))
}

// propertySummary is one row of the portfolio dashboard.
type propertySummary struct {
	Property        types.Property       `json:"property"`
	Risk            types.RiskAssessment `json:"risk"`
	InspectionCount int                  `json:"inspection_count"`
	OpenViolations  int                  `json:"open_violations"`
	NextDue         *time.Time           `json:"next_due,omitempty"`
}

// GetPortfolioSummary returns a dashboard row per property plus
// portfolio-wide totals.
func (h *InsightHandler) GetPortfolioSummary(w http.ResponseWriter, r *http.Request) {
	properties, err := h.store.ListProperties(r.Context(), 500, 0)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	summaries := make([]propertySummary, 0, len(properties))
	var allInspections []types.InspectionRecord
	var allViolations []types.Violation
	for _, p := range properties {
		inspections, violations, err := h.propertyRecords(r, p.ID)
		if err != nil {
			storeErrorToHTTP(w, err)
			return
		}
		row := propertySummary{
			Property:        p,
			Risk:            engine.AggregateRisk(inspections, violations),
			InspectionCount: len(inspections),
		}
		for _, v := range violations {
			if v.Status == types.ViolationOpen {
				row.OpenViolations++
			}
		}
		for i := range inspections {
			rec := inspections[i]
			if rec.CalculatedStatus == types.StatusCompleted || rec.CalculatedStatus == types.StatusCancelled {
				continue
			}
			if row.NextDue == nil || rec.NextDueDate.Before(*row.NextDue) {
				due := rec.NextDueDate
				row.NextDue = &due
			}
		}
		summaries = append(summaries, row)
		allInspections = append(allInspections, inspections...)
		allViolations = append(allViolations, violations...)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"properties":     summaries,
		"portfolio_risk": engine.AggregateRisk(allInspections, allViolations),
	})
}
