// Package store provides persistence for compliance records. SQLite is the
// production backend; MemoryStore serves demos and tests. Record validation
// happens here, at the boundary — the engine assumes well-formed input.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/matthewbaird/compliance/internal/types"
)

// Sentinel errors surfaced by implementations.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidRecord = errors.New("invalid record")
)

// InspectionQuery filters inspection listings.
type InspectionQuery struct {
	PropertyID string
	RawStatus  types.Status
	DueAfter   *time.Time
	DueBefore  *time.Time
	Limit      int
	Offset     int
}

// ViolationQuery filters violation listings.
type ViolationQuery struct {
	PropertyID   string
	Status       types.ViolationStatus
	Severity     types.Severity
	IssuedAfter  *time.Time
	IssuedBefore *time.Time
	Limit        int
	Offset       int
}

// CostQuery filters cost record listings.
type CostQuery struct {
	PropertyID      string
	CompletedAfter  *time.Time
	CompletedBefore *time.Time
	Limit           int
}

// Store is the persistence interface consumed by handlers and workers.
type Store interface {
	CreateProperty(ctx context.Context, p *types.Property) error
	GetProperty(ctx context.Context, id string) (*types.Property, error)
	ListProperties(ctx context.Context, limit, offset int) ([]types.Property, error)
	UpdateProperty(ctx context.Context, p *types.Property) error

	CreateInspection(ctx context.Context, rec *types.InspectionRecord) error
	GetInspection(ctx context.Context, id string) (*types.InspectionRecord, error)
	ListInspections(ctx context.Context, q InspectionQuery) ([]types.InspectionRecord, error)
	UpdateInspection(ctx context.Context, rec *types.InspectionRecord) error

	CreateViolation(ctx context.Context, v *types.Violation) error
	GetViolation(ctx context.Context, id string) (*types.Violation, error)
	ListViolations(ctx context.Context, q ViolationQuery) ([]types.Violation, error)
	UpdateViolation(ctx context.Context, v *types.Violation) error

	CreateCostRecord(ctx context.Context, c *types.CostRecord) error
	ListCostRecords(ctx context.Context, q CostQuery) ([]types.CostRecord, error)

	Close() error
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
