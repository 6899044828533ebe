package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/compliance/internal/activity"
	"github.com/matthewbaird/compliance/internal/engine"
	"github.com/matthewbaird/compliance/internal/event"
	"github.com/matthewbaird/compliance/internal/handler"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

type testEnv struct {
	srv      *httptest.Server
	store    *store.MemoryStore
	activity *activity.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemoryStore()
	actStore := activity.NewMemoryStore()
	handler.SetRecorder(event.NewActivityRecorder(actStore, nil))
	t.Cleanup(func() { handler.SetRecorder(nil) })

	router := NewRouter(Config{
		Port:          0,
		Store:         st,
		ActivityStore: actStore,
		ClassifierCfg: func() engine.ClassifierConfig { return engine.ClassifierConfig{} },
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, store: st, activity: actStore}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createProperty(t *testing.T, e *testEnv, systemKeys ...string) types.Property {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/v1/properties", map[string]any{
		"name": "Hudson View Tower",
		"address": map[string]string{
			"line1": "455 W 37th St", "city": "New York", "state": "NY", "postal_code": "10018",
		},
		"property_type": "residential",
		"jurisdiction":  "us-ny-nyc",
		"system_keys":   systemKeys,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[struct {
		Property types.Property `json:"property"`
	}](t, resp)
	return out.Property
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/healthz", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPropertyLifecycle(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e)
	require.NotEmpty(t, p.ID)

	resp := e.do(t, http.MethodGet, "/v1/properties/"+p.ID, nil)
	got := decode[types.Property](t, resp)
	assert.Equal(t, "Hudson View Tower", got.Name)

	resp = e.do(t, http.MethodPatch, "/v1/properties/"+p.ID, map[string]any{"unit_count": 42})
	got = decode[types.Property](t, resp)
	assert.Equal(t, 42, got.UnitCount)

	resp = e.do(t, http.MethodGet, "/v1/properties", nil)
	list := decode[[]types.Property](t, resp)
	require.Len(t, list, 1)
}

func TestGetPropertyNotFound(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/v1/properties/00000000-0000-0000-0000-000000000001", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidUUIDRejected(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/v1/properties/not-a-uuid", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAttachSystemsFromCatalog(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e)

	resp := e.do(t, http.MethodPost, "/v1/properties/"+p.ID+"/systems", map[string]any{
		"system_keys": []string{"fire_alarm", "boiler", "no_such_system"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[struct {
		Attached []types.InspectionRecord `json:"attached_systems"`
		Failed   []string                 `json:"failed_systems"`
	}](t, resp)
	assert.Len(t, out.Attached, 2)
	assert.Equal(t, []string{"no_such_system"}, out.Failed)

	for _, rec := range out.Attached {
		assert.Equal(t, p.ID, rec.PropertyID)
		assert.False(t, rec.NextDueDate.IsZero())
		assert.NotEmpty(t, rec.Authority)
	}
}

func TestCompleteInspectionRollsForward(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e, "boiler")

	resp := e.do(t, http.MethodGet, "/v1/inspections?property_id="+p.ID, nil)
	list := decode[[]types.InspectionRecord](t, resp)
	require.Len(t, list, 1)
	rec := list[0]

	completed := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)
	resp = e.do(t, http.MethodPost, "/v1/inspections/"+rec.ID+"/complete", map[string]any{
		"completed_date":    completed,
		"actual_cost_cents": 42500,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[types.InspectionRecord](t, resp)

	require.NotNil(t, got.LastCompletedDate)
	assert.True(t, got.LastCompletedDate.Equal(completed))
	assert.Equal(t, types.StatusScheduled, got.RawStatus)
	// Annual boiler cycle rolls forward one year from completion.
	assert.Equal(t, 2027, got.NextDueDate.Year())
	assert.Equal(t, time.January, got.NextDueDate.Month())

	resp = e.do(t, http.MethodGet, "/v1/cost-records?property_id="+p.ID, nil)
	costs := decode[[]types.CostRecord](t, resp)
	require.Len(t, costs, 1)
	assert.Equal(t, int64(42500), costs[0].ActualCostCents)
}

func TestCompleteCompletedInspectionConflicts(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e, "boiler")

	resp := e.do(t, http.MethodGet, "/v1/inspections?property_id="+p.ID, nil)
	list := decode[[]types.InspectionRecord](t, resp)
	rec := list[0]

	resp = e.do(t, http.MethodPatch, "/v1/inspections/"+rec.ID, map[string]any{"status": "cancelled"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodPost, "/v1/inspections/"+rec.ID+"/complete", map[string]any{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestViolationSeverityInferredFromRiskCategory(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e)

	resp := e.do(t, http.MethodPost, "/v1/violations", map[string]any{
		"property_id":   p.ID,
		"category":      "Fire Safety",
		"risk_category": "FIRE",
		"issued_date":   time.Now(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	v := decode[types.Violation](t, resp)
	assert.Equal(t, types.SeverityCritical, v.Severity)
	assert.Equal(t, types.ViolationOpen, v.Status)

	resp = e.do(t, http.MethodPost, "/v1/violations/"+v.ID+"/resolve", map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resolved := decode[types.Violation](t, resp)
	assert.Equal(t, types.ViolationClosed, resolved.Status)
	require.NotNil(t, resolved.ResolutionDate)

	// Resolving twice is a conflict.
	resp = e.do(t, http.MethodPost, "/v1/violations/"+v.ID+"/resolve", map[string]any{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPropertyRiskEndpoint(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e)

	// One overdue inspection and one open critical violation: 25 + 30.
	resp := e.do(t, http.MethodPost, "/v1/inspections", map[string]any{
		"property_id":     p.ID,
		"inspection_type": "Boiler Inspection",
		"category":        "Mechanical",
		"frequency":       "annual",
		"next_due_date":   time.Now().AddDate(0, 0, -10),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodPost, "/v1/violations", map[string]any{
		"property_id": p.ID,
		"category":    "Fire Safety",
		"severity":    "critical",
		"issued_date": time.Now(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodGet, "/v1/properties/"+p.ID+"/risk", nil)
	risk := decode[types.RiskAssessment](t, resp)
	assert.Equal(t, 55, risk.RiskScore)
	assert.Equal(t, types.RiskHigh, risk.RiskLevel)
	assert.Equal(t, 1, risk.Factors.OverdueInspections)
	assert.Equal(t, 1, risk.Factors.CriticalOpen)
}

func TestRecommendationsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e)

	resp := e.do(t, http.MethodPost, "/v1/inspections", map[string]any{
		"property_id":     p.ID,
		"inspection_type": "Facade Inspection",
		"category":        "Structural",
		"frequency":       "annual",
		"next_due_date":   time.Now().AddDate(0, 0, -30),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodGet, "/v1/properties/"+p.ID+"/recommendations", nil)
	recs := decode[[]types.Recommendation](t, resp)
	require.NotEmpty(t, recs)
	assert.Equal(t, "Address Overdue Inspections", recs[0].Title)
}

func TestRecommendationsEmptyIsJSONArray(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e)
	resp := e.do(t, http.MethodGet, "/v1/properties/"+p.ID+"/recommendations", nil)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestTrendsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e)

	resp := e.do(t, http.MethodGet, "/v1/properties/"+p.ID+"/trends?period_days=30", nil)
	out := decode[struct {
		PeriodDays int                 `json:"period_days"`
		Trends     types.TrendSnapshot `json:"trends"`
	}](t, resp)
	assert.Equal(t, 30, out.PeriodDays)
	assert.Equal(t, 0.0, out.Trends.InspectionTrend, "no prior data means flat trend")
}

func TestCalendarExport(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e, "fire_alarm")

	resp := e.do(t, http.MethodGet, "/v1/properties/"+p.ID+"/calendar.ics", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/calendar")

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	body := buf.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "BEGIN:VEVENT")
	assert.Contains(t, body, "Fire Alarm System Inspection")
}

func TestUpcomingBuckets(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e, "fire_alarm", "boiler")

	resp := e.do(t, http.MethodGet, "/v1/properties/"+p.ID+"/upcoming", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	buckets := decode[[]struct {
		Inspections []types.InspectionRecord `json:"inspections"`
	}](t, resp)
	total := 0
	for _, b := range buckets {
		total += len(b.Inspections)
	}
	assert.Equal(t, 2, total)
}

func TestCatalogEndpoints(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/v1/catalog", nil)
	all := decode[[]types.ComplianceSystemDefinition](t, resp)
	assert.GreaterOrEqual(t, len(all), 10)

	resp = e.do(t, http.MethodGet, "/v1/catalog/fire_alarm", nil)
	def := decode[types.ComplianceSystemDefinition](t, resp)
	assert.Equal(t, "fire_alarm", def.Key)

	resp = e.do(t, http.MethodGet, "/v1/catalog/bogus", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestActivityTimeline(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e, "boiler")

	resp := e.do(t, http.MethodGet, "/v1/activity/property/"+p.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := decode[[]types.ActivityEntry](t, resp)
	require.NotEmpty(t, entries)

	found := false
	for _, entry := range entries {
		if entry.EventType == "property_onboarded" {
			found = true
		}
	}
	assert.True(t, found, "onboarding event recorded, got %v", entries)

	resp = e.do(t, http.MethodGet, "/v1/properties/"+p.ID+"/activity", nil)
	scoped := decode[[]types.ActivityEntry](t, resp)
	assert.Len(t, scoped, len(entries), "property-scoped route matches the generic one")

	resp = e.do(t, http.MethodGet, "/v1/activity/lease/"+p.ID, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPortfolioSummary(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e, "boiler")

	resp := e.do(t, http.MethodPost, "/v1/violations", map[string]any{
		"property_id": p.ID,
		"category":    "Electrical",
		"severity":    "high",
		"issued_date": time.Now(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodGet, "/v1/portfolio/summary", nil)
	out := decode[struct {
		Properties []struct {
			Property       types.Property       `json:"property"`
			Risk           types.RiskAssessment `json:"risk"`
			OpenViolations int                  `json:"open_violations"`
		} `json:"properties"`
		PortfolioRisk types.RiskAssessment `json:"portfolio_risk"`
	}](t, resp)
	require.Len(t, out.Properties, 1)
	assert.Equal(t, 1, out.Properties[0].OpenViolations)

	resp = e.do(t, http.MethodGet, "/v1/portfolio/risk", nil)
	risk := decode[types.RiskAssessment](t, resp)
	assert.Equal(t, risk, out.PortfolioRisk)
}

func TestListInspectionsFilterByCalculatedStatus(t *testing.T) {
	e := newTestEnv(t)
	p := createProperty(t, e)

	for _, days := range []int{-5, 2, 300} {
		resp := e.do(t, http.MethodPost, "/v1/inspections", map[string]any{
			"property_id":     p.ID,
			"inspection_type": fmt.Sprintf("Inspection %d", days),
			"category":        "Fire Safety",
			"frequency":       "annual",
			"next_due_date":   time.Now().AddDate(0, 0, days),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := e.do(t, http.MethodGet, "/v1/inspections?property_id="+p.ID+"&calculated_status=overdue", nil)
	list := decode[[]types.InspectionRecord](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, types.StatusOverdue, list[0].CalculatedStatus)
	assert.Equal(t, types.UrgencyCritical, list[0].UrgencyLevel)
}
