// Package seed provides demo data seeding for local development.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/matthewbaird/compliance/internal/engine"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

// SeedDemo populates the store with two NYC properties, their catalog
// systems, and a handful of violations and cost records. If any property
// already exists the seeding is skipped.
func SeedDemo(ctx context.Context, s store.Store) error {
	existing, err := s.ListProperties(ctx, 1, 0)
	if err != nil {
		return fmt.Errorf("checking properties: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("demo data already seeded, skipping")
		return nil
	}

	now := time.Now()

	tower := types.Property{
		Name: "Hudson View Tower",
		Address: types.Address{
			Line1: "455 W 37th St", City: "New York", State: "NY", PostalCode: "10018",
			BIN: "1087351", BBL: "1007090045",
		},
		PropertyType: "residential",
		Jurisdiction: "us-ny-nyc",
		UnitCount:    210,
		YearBuilt:    1987,
	}
	if err := s.CreateProperty(ctx, &tower); err != nil {
		return fmt.Errorf("seeding property: %w", err)
	}

	warehouse := types.Property{
		Name: "Greenpoint Works",
		Address: types.Address{
			Line1: "67 West St", City: "Brooklyn", State: "NY", PostalCode: "11222",
			BIN: "3065829", BBL: "3024720001",
		},
		PropertyType: "commercial",
		Jurisdiction: "us-ny-nyc",
		UnitCount:    14,
		YearBuilt:    1962,
	}
	if err := s.CreateProperty(ctx, &warehouse); err != nil {
		return fmt.Errorf("seeding property: %w", err)
	}

	// Hudson View gets the full NYC catalog; the due dates fan out so the
	// dashboard shows all urgency tiers.
	offsets := []int{-12, 3, 20, 75, 140, 200, 290, 340, 365, 400, 500}
	for i, def := range engine.SystemsForJurisdiction("us-ny-nyc") {
		due := now.AddDate(0, 0, offsets[i%len(offsets)])
		rec := types.InspectionRecord{
			PropertyID:     tower.ID,
			SystemKey:      def.Key,
			InspectionType: def.Name,
			Category:       def.Category,
			Authority:      def.Authority,
			Frequency:      def.Frequency,
			NextDueDate:    due,
			RawStatus:      types.StatusScheduled,
			EstimatedCost:  def.EstimatedCost,
		}
		if err := s.CreateInspection(ctx, &rec); err != nil {
			return fmt.Errorf("seeding inspection %s: %w", def.Key, err)
		}
	}

	// Greenpoint gets a smaller slice.
	for i, key := range []string{"fire_alarm", "boiler", "facade"} {
		def, ok := engine.LookupSystem(key)
		if !ok {
			continue
		}
		rec := types.InspectionRecord{
			PropertyID:     warehouse.ID,
			SystemKey:      def.Key,
			InspectionType: def.Name,
			Category:       def.Category,
			Authority:      def.Authority,
			Frequency:      def.Frequency,
			NextDueDate:    now.AddDate(0, 0, 30+i*60),
			RawStatus:      types.StatusScheduled,
			EstimatedCost:  def.EstimatedCost,
		}
		if err := s.CreateInspection(ctx, &rec); err != nil {
			return fmt.Errorf("seeding inspection %s: %w", key, err)
		}
	}

	violations := []types.Violation{
		{
			PropertyID:   tower.ID,
			Category:     "Fire Safety",
			Description:  "Obstructed sprinkler head on floor 12",
			RiskCategory: "FIRE",
			IssuedDate:   now.AddDate(0, 0, -21),
			Status:       types.ViolationOpen,
		},
		{
			PropertyID:   tower.ID,
			Category:     "Heating",
			Description:  "Inadequate heat in units 4A-4C",
			RiskCategory: "MECHANICAL",
			IssuedDate:   now.AddDate(0, 0, -40),
			Status:       types.ViolationOpen,
		},
		{
			PropertyID:   warehouse.ID,
			Category:     "Electrical",
			Description:  "Exposed wiring in loading bay",
			RiskCategory: "ELECTRICAL",
			IssuedDate:   now.AddDate(0, -4, 0),
			Status:       types.ViolationClosed,
		},
	}
	for i := range violations {
		v := &violations[i]
		v.Severity = engine.NormalizeSeverity(*v)
		if v.Status == types.ViolationClosed {
			resolved := now.AddDate(0, -1, 0)
			v.ResolutionDate = &resolved
		}
		if err := s.CreateViolation(ctx, v); err != nil {
			return fmt.Errorf("seeding violation: %w", err)
		}
	}

	costs := []types.CostRecord{
		{PropertyID: tower.ID, InspectionType: "Boiler Inspection", ActualCostCents: 42500, CompletedDate: now.AddDate(-1, 0, 0)},
		{PropertyID: tower.ID, InspectionType: "Elevator Inspection", ActualCostCents: 61000, CompletedDate: now.AddDate(0, -8, 0)},
		{PropertyID: tower.ID, InspectionType: "Facade Inspection", ActualCostCents: 385000, CompletedDate: now.AddDate(0, -6, 0)},
	}
	for i := range costs {
		if err := s.CreateCostRecord(ctx, &costs[i]); err != nil {
			return fmt.Errorf("seeding cost record: %w", err)
		}
	}

	log.Printf("seeded demo data: 2 properties, %d systems", len(engine.SystemsForJurisdiction("us-ny-nyc"))+3)
	return nil
}
