// Package event defines the domain events emitted by command handlers and
// workers, and the recorder that fans them out to the activity log.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matthewbaird/compliance/internal/types"
)

// DomainEvent carries the canonical shape of every domain event.
type DomainEvent struct {
	ID               string
	EventType        string
	OccurredAt       time.Time
	AffectedEntities []types.SourceRef
	Summary          string
	Category         string // "inspection", "violation", "property"
	Payload          json.RawMessage
}

func newID() string { return uuid.New().String() }

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// ── Inspection events ───────────────────────────────────────────────────

// InspectionScheduledPayload carries event data for InspectionScheduled.
type InspectionScheduledPayload struct {
	InspectionID   string          `json:"inspection_id"`
	PropertyID     string          `json:"property_id"`
	SystemKey      string          `json:"system_key,omitempty"`
	InspectionType string          `json:"inspection_type"`
	Frequency      types.Frequency `json:"frequency"`
	NextDueDate    time.Time       `json:"next_due_date"`
}

func NewInspectionScheduled(p InspectionScheduledPayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "inspection_scheduled",
		OccurredAt: time.Now(),
		AffectedEntities: []types.SourceRef{
			{EntityType: "inspection", EntityID: p.InspectionID, Role: "subject"},
			{EntityType: "property", EntityID: p.PropertyID, Role: "context"},
		},
		Summary:  fmt.Sprintf("%s scheduled, due %s", p.InspectionType, p.NextDueDate.Format("2006-01-02")),
		Category: "inspection",
		Payload:  mustJSON(p),
	}
}

// InspectionCompletedPayload carries event data for InspectionCompleted.
type InspectionCompletedPayload struct {
	InspectionID    string    `json:"inspection_id"`
	PropertyID      string    `json:"property_id"`
	InspectionType  string    `json:"inspection_type"`
	CompletedDate   time.Time `json:"completed_date"`
	NextDueDate     time.Time `json:"next_due_date"`
	ActualCostCents int64     `json:"actual_cost_cents,omitempty"`
}

func NewInspectionCompleted(p InspectionCompletedPayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "inspection_completed",
		OccurredAt: time.Now(),
		AffectedEntities: []types.SourceRef{
			{EntityType: "inspection", EntityID: p.InspectionID, Role: "subject"},
			{EntityType: "property", EntityID: p.PropertyID, Role: "context"},
		},
		Summary:  fmt.Sprintf("%s completed, next cycle due %s", p.InspectionType, p.NextDueDate.Format("2006-01-02")),
		Category: "inspection",
		Payload:  mustJSON(p),
	}
}

// InspectionOverduePayload carries event data for InspectionOverdue,
// emitted by the refresh worker when a record crosses the due boundary.
type InspectionOverduePayload struct {
	InspectionID   string    `json:"inspection_id"`
	PropertyID     string    `json:"property_id"`
	InspectionType string    `json:"inspection_type"`
	NextDueDate    time.Time `json:"next_due_date"`
	DaysOverdue    int       `json:"days_overdue"`
}

func NewInspectionOverdue(p InspectionOverduePayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "inspection_overdue",
		OccurredAt: time.Now(),
		AffectedEntities: []types.SourceRef{
			{EntityType: "inspection", EntityID: p.InspectionID, Role: "subject"},
			{EntityType: "property", EntityID: p.PropertyID, Role: "context"},
		},
		Summary:  fmt.Sprintf("%s is %d day(s) overdue", p.InspectionType, p.DaysOverdue),
		Category: "inspection",
		Payload:  mustJSON(p),
	}
}

// ── Violation events ────────────────────────────────────────────────────

// ViolationIssuedPayload carries event data for ViolationIssued.
type ViolationIssuedPayload struct {
	ViolationID string         `json:"violation_id"`
	PropertyID  string         `json:"property_id"`
	Category    string         `json:"category"`
	Severity    types.Severity `json:"severity"`
	IssuedDate  time.Time      `json:"issued_date"`
}

func NewViolationIssued(p ViolationIssuedPayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "violation_issued",
		OccurredAt: time.Now(),
		AffectedEntities: []types.SourceRef{
			{EntityType: "violation", EntityID: p.ViolationID, Role: "subject"},
			{EntityType: "property", EntityID: p.PropertyID, Role: "context"},
		},
		Summary:  fmt.Sprintf("%s violation issued (%s)", p.Category, p.Severity),
		Category: "violation",
		Payload:  mustJSON(p),
	}
}

// ViolationResolvedPayload carries event data for ViolationResolved.
type ViolationResolvedPayload struct {
	ViolationID    string    `json:"violation_id"`
	PropertyID     string    `json:"property_id"`
	Category       string    `json:"category"`
	ResolutionDate time.Time `json:"resolution_date"`
}

func NewViolationResolved(p ViolationResolvedPayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "violation_resolved",
		OccurredAt: time.Now(),
		AffectedEntities: []types.SourceRef{
			{EntityType: "violation", EntityID: p.ViolationID, Role: "subject"},
			{EntityType: "property", EntityID: p.PropertyID, Role: "context"},
		},
		Summary:  fmt.Sprintf("%s violation resolved", p.Category),
		Category: "violation",
		Payload:  mustJSON(p),
	}
}

// ── Property events ─────────────────────────────────────────────────────

// PropertyOnboardedPayload carries event data for PropertyOnboarded.
type PropertyOnboardedPayload struct {
	PropertyID   string `json:"property_id"`
	Name         string `json:"name"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	SystemCount  int    `json:"system_count"`
}

func NewPropertyOnboarded(p PropertyOnboardedPayload) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "property_onboarded",
		OccurredAt: time.Now(),
		AffectedEntities: []types.SourceRef{
			{EntityType: "property", EntityID: p.PropertyID, Role: "subject"},
		},
		Summary:  fmt.Sprintf("Property %s onboarded with %d compliance system(s)", p.Name, p.SystemCount),
		Category: "property",
		Payload:  mustJSON(p),
	}
}
