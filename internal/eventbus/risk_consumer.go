package eventbus

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/matthewbaird/compliance/internal/engine"
	"github.com/matthewbaird/compliance/internal/event"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

// RiskConsumer recomputes a property's risk assessment whenever an
// inspection or violation event touches it, and logs level transitions.
type RiskConsumer struct {
	store store.Store
	cfg   func() engine.ClassifierConfig

	mu     sync.Mutex
	levels map[string]types.RiskLevel
}

func NewRiskConsumer(s store.Store, cfg func() engine.ClassifierConfig) *RiskConsumer {
	return &RiskConsumer{
		store:  s,
		cfg:    cfg,
		levels: make(map[string]types.RiskLevel),
	}
}

// Handle implements the bus Handler signature.
func (c *RiskConsumer) Handle(ctx context.Context, ev event.DomainEvent) {
	if ev.Category != "inspection" && ev.Category != "violation" {
		return
	}
	propertyID := propertyRef(ev)
	if propertyID == "" {
		return
	}
	assessment, err := c.Recompute(ctx, propertyID)
	if err != nil {
		log.Printf("risk consumer: recompute %s: %v", propertyID, err)
		return
	}

	c.mu.Lock()
	prev, seen := c.levels[propertyID]
	c.levels[propertyID] = assessment.RiskLevel
	c.mu.Unlock()

	if seen && prev != assessment.RiskLevel {
		log.Printf("risk consumer: property %s risk %s -> %s (score %d)",
			propertyID, prev, assessment.RiskLevel, assessment.RiskScore)
	}
}

// Recompute loads the property's current records and runs the aggregator.
func (c *RiskConsumer) Recompute(ctx context.Context, propertyID string) (types.RiskAssessment, error) {
	inspections, err := c.store.ListInspections(ctx, store.InspectionQuery{PropertyID: propertyID, Limit: 500})
	if err != nil {
		return types.RiskAssessment{}, err
	}
	violations, err := c.store.ListViolations(ctx, store.ViolationQuery{PropertyID: propertyID, Limit: 500})
	if err != nil {
		return types.RiskAssessment{}, err
	}
	enriched := engine.EnrichInspections(inspections, time.Now(), c.cfg())
	return engine.AggregateRisk(enriched, violations), nil
}

func propertyRef(ev event.DomainEvent) string {
	for _, ref := range ev.AffectedEntities {
		if ref.EntityType == "property" {
			return ref.EntityID
		}
	}
	return ""
}
