package store

import (
	"fmt"
	"time"

	"github.com/matthewbaird/compliance/internal/types"
)

// Dates outside this window are treated as malformed source data. The
// bounds are generous: jurisdiction feeds occasionally carry 1900-01-01
// placeholders and typo'd far-future years.
var (
	minValidDate = time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)
	maxValidDate = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

func validDate(t time.Time) bool {
	return !t.IsZero() && t.After(minValidDate) && t.Before(maxValidDate)
}

// ValidateProperty rejects malformed property records at the boundary.
func ValidateProperty(p *types.Property) error {
	if p.ID == "" {
		return fmt.Errorf("%w: property missing id", ErrInvalidRecord)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: property %s missing name", ErrInvalidRecord, p.ID)
	}
	return nil
}

// ValidateInspection rejects malformed inspection records before they can
// reach the engine. The engine itself never fails on dates, so every date
// that enters it must be sane.
func ValidateInspection(rec *types.InspectionRecord) error {
	if rec.ID == "" || rec.PropertyID == "" {
		return fmt.Errorf("%w: inspection missing id or property reference", ErrInvalidRecord)
	}
	if rec.InspectionType == "" {
		return fmt.Errorf("%w: inspection %s missing type", ErrInvalidRecord, rec.ID)
	}
	if !validDate(rec.NextDueDate) {
		return fmt.Errorf("%w: inspection %s next_due_date %v", ErrInvalidDate, rec.ID, rec.NextDueDate)
	}
	if rec.LastCompletedDate != nil && !validDate(*rec.LastCompletedDate) {
		return fmt.Errorf("%w: inspection %s last_completed_date %v", ErrInvalidDate, rec.ID, *rec.LastCompletedDate)
	}
	if rec.EstimatedCost.MinCents < 0 || rec.EstimatedCost.MaxCents < rec.EstimatedCost.MinCents {
		return fmt.Errorf("%w: inspection %s cost range %d-%d", ErrInvalidRecord, rec.ID, rec.EstimatedCost.MinCents, rec.EstimatedCost.MaxCents)
	}
	switch rec.RawStatus {
	case types.StatusScheduled, types.StatusDueSoon, types.StatusOverdue,
		types.StatusCompleted, types.StatusCancelled, types.StatusInProgress:
	default:
		return fmt.Errorf("%w: inspection %s status %q", ErrInvalidRecord, rec.ID, rec.RawStatus)
	}
	return nil
}

// ValidateViolation rejects malformed violation records. A violation may
// carry either a severity tier or a jurisdiction risk category; the engine
// normalizes the latter.
func ValidateViolation(v *types.Violation) error {
	if v.ID == "" || v.PropertyID == "" {
		return fmt.Errorf("%w: violation missing id or property reference", ErrInvalidRecord)
	}
	if !validDate(v.IssuedDate) {
		return fmt.Errorf("%w: violation %s issued_date %v", ErrInvalidDate, v.ID, v.IssuedDate)
	}
	switch v.Status {
	case types.ViolationOpen, types.ViolationClosed:
	default:
		return fmt.Errorf("%w: violation %s status %q", ErrInvalidRecord, v.ID, v.Status)
	}
	if v.ResolutionDate != nil && !validDate(*v.ResolutionDate) {
		return fmt.Errorf("%w: violation %s resolution_date %v", ErrInvalidDate, v.ID, *v.ResolutionDate)
	}
	return nil
}

// ValidateCostRecord rejects malformed cost records.
func ValidateCostRecord(c *types.CostRecord) error {
	if c.ID == "" || c.PropertyID == "" {
		return fmt.Errorf("%w: cost record missing id or property reference", ErrInvalidRecord)
	}
	if c.ActualCostCents < 0 {
		return fmt.Errorf("%w: cost record %s negative cost", ErrInvalidRecord, c.ID)
	}
	if !validDate(c.CompletedDate) {
		return fmt.Errorf("%w: cost record %s completed_date %v", ErrInvalidDate, c.ID, c.CompletedDate)
	}
	return nil
}
