// Package activity persists the append-only activity log derived from
// domain events. Each event is indexed once per affected entity so that
// per-entity timelines are a single query.
package activity

import (
	"context"
	"time"

	"github.com/matthewbaird/compliance/internal/types"
)

// QueryOptions narrows an entity timeline query.
type QueryOptions struct {
	Category string
	Since    time.Time
	Until    time.Time
	Limit    int
	Offset   int
}

// Store is the persistence contract for activity entries.
type Store interface {
	WriteEntries(ctx context.Context, entries []types.ActivityEntry) error
	QueryByEntity(ctx context.Context, entityType, entityID string, opts QueryOptions) ([]types.ActivityEntry, error)
	Close() error
}

func clampLimit(n int) int {
	if n <= 0 || n > 500 {
		return 100
	}
	return n
}
