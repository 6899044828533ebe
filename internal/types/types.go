// Package types provides the plain data records shared across the compliance
// service. Everything here is serializable data with no behavior attached —
// the engine, store, and handlers all speak these shapes.
package types

import (
	"time"
)

// Frequency is the recurrence rule for a compliance obligation.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyBiannual  Frequency = "biannual"
	FrequencyAnnual    Frequency = "annual"
)

// UrgencyLevel is the four-tier date-derived classification driving
// visual and sort priority.
type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "critical"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyLow      UrgencyLevel = "low"
)

// Status is an inspection lifecycle label. Raw statuses come from the
// source system; calculated statuses are derived by the classifier.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusDueSoon    Status = "due_soon"
	StatusOverdue    Status = "overdue"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusInProgress Status = "in_progress"
)

// IsTerminal reports whether a raw status takes precedence over the
// date-derived status. Urgency stays date-driven regardless.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusInProgress:
		return true
	}
	return false
}

// Severity is the ordinal violation severity tier.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// RiskLevel buckets a numeric risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ViolationStatus is open or closed.
type ViolationStatus string

const (
	ViolationOpen   ViolationStatus = "open"
	ViolationClosed ViolationStatus = "closed"
)

// Address is a US postal address. BIN/BBL identifiers used by jurisdiction
// data sources ride along as opaque strings.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	BIN        string `json:"bin,omitempty"`
	BBL        string `json:"bbl,omitempty"`
}

// String renders the address on one line for event summaries and
// calendar export.
func (a Address) String() string {
	s := a.Line1
	if a.Line2 != "" {
		s += " " + a.Line2
	}
	if a.City != "" {
		s += ", " + a.City
	}
	if a.State != "" {
		s += ", " + a.State
	}
	if a.PostalCode != "" {
		s += " " + a.PostalCode
	}
	return s
}

// Property is a managed building tracked for compliance.
type Property struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      Address   `json:"address"`
	PropertyType string    `json:"property_type"`
	Jurisdiction string    `json:"jurisdiction,omitempty"` // locale tag, e.g. "us-ny-nyc"
	UnitCount    int       `json:"unit_count,omitempty"`
	YearBuilt    int       `json:"year_built,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CostRange is an estimated cost band in integer cents.
type CostRange struct {
	MinCents int64 `json:"min_cents"`
	MaxCents int64 `json:"max_cents"`
}

// InspectionRecord is one compliance obligation instance for a property.
// The derived fields are computed by the classifier and never stored;
// they are zero until enrichment.
type InspectionRecord struct {
	ID                string     `json:"id"`
	PropertyID        string     `json:"property_id"`
	SystemKey         string     `json:"system_key,omitempty"` // catalog key, if attached from the catalog
	InspectionType    string     `json:"inspection_type"`
	Category          string     `json:"category"`
	Authority         string     `json:"authority"`
	Frequency         Frequency  `json:"frequency"`
	NextDueDate       time.Time  `json:"next_due_date"`
	LastCompletedDate *time.Time `json:"last_completed_date,omitempty"`
	RawStatus         Status     `json:"status"`
	EstimatedCost     CostRange  `json:"estimated_cost"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Derived by the classifier.
	DaysUntilDue     int          `json:"days_until_due"`
	UrgencyLevel     UrgencyLevel `json:"urgency_level,omitempty"`
	CalculatedStatus Status       `json:"calculated_status,omitempty"`
}

// ComplianceSystemDefinition is an immutable catalog entry describing a
// recurring regulatory obligation. Looked up by key; never per-property.
type ComplianceSystemDefinition struct {
	Key           string    `json:"key"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Frequency     Frequency `json:"frequency"`
	Authority     string    `json:"authority"`
	Jurisdictions []string  `json:"jurisdictions"` // locale tags
	EstimatedCost CostRange `json:"estimated_cost"`
	Requirements  []string  `json:"requirements,omitempty"`
}

// Violation is an open or closed finding against a property.
// Severity must be one of the four tiers; sources that only carry a
// jurisdiction risk category get a severity inferred by the engine.
type Violation struct {
	ID             string          `json:"id"`
	PropertyID     string          `json:"property_id"`
	Category       string          `json:"category"`
	Description    string          `json:"description,omitempty"`
	Severity       Severity        `json:"severity"`
	RiskCategory   string          `json:"risk_category,omitempty"` // raw jurisdiction category, e.g. "FIRE"
	IssuedDate     time.Time       `json:"issued_date"`
	Status         ViolationStatus `json:"status"`
	ResolutionDate *time.Time      `json:"resolution_date,omitempty"`
}

// CostRecord is the actual cost of a completed inspection, used by the
// recommendation generator's cost-outlier rule.
type CostRecord struct {
	ID              string    `json:"id"`
	PropertyID      string    `json:"property_id"`
	InspectionID    string    `json:"inspection_id,omitempty"`
	InspectionType  string    `json:"inspection_type"`
	ActualCostCents int64     `json:"actual_cost_cents"`
	CompletedDate   time.Time `json:"completed_date"`
}

// FactorBreakdown lists the contributing counts behind a risk score.
type FactorBreakdown struct {
	OverdueInspections int `json:"overdue_inspections"`
	CriticalOpen       int `json:"critical_open_violations"`
	DueSoonInspections int `json:"due_soon_inspections"`
}

// RiskAssessment is a derived snapshot for a property or portfolio.
// Not persisted — recomputed from the records it summarizes.
type RiskAssessment struct {
	RiskScore int             `json:"risk_score"` // 0–100
	RiskLevel RiskLevel       `json:"risk_level"`
	Factors   FactorBreakdown `json:"factors"`
}

// TrendSnapshot holds period-over-period percentage deltas. Each delta is
// 0 when the prior-period denominator is 0.
type TrendSnapshot struct {
	InspectionTrend float64 `json:"inspection_trend_pct"`
	ViolationTrend  float64 `json:"violation_trend_pct"`
	ComplianceTrend float64 `json:"compliance_trend_pct"`
}

// RecommendationType tags a recommendation's nature.
type RecommendationType string

const (
	RecommendationUrgent       RecommendationType = "urgent"
	RecommendationPlanning     RecommendationType = "planning"
	RecommendationOptimization RecommendationType = "optimization"
)

// Priority orders recommendations for display.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Recommendation is one actionable finding. Slice order is a user-facing
// contract: rule-declaration order, not priority order.
type Recommendation struct {
	Type        RecommendationType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Action      string             `json:"action"`
	Priority    Priority           `json:"priority"`
}
