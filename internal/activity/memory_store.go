package activity

import (
	"context"
	"sort"
	"sync"

	"github.com/matthewbaird/compliance/internal/types"
)

// MemoryStore keeps activity entries in memory, for tests and demos.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []types.ActivityEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) WriteEntries(_ context.Context, entries []types.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *MemoryStore) QueryByEntity(_ context.Context, entityType, entityID string, opts QueryOptions) ([]types.ActivityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.ActivityEntry
	for _, e := range s.entries {
		if e.IndexedEntityType != entityType || e.IndexedEntityID != entityID {
			continue
		}
		if opts.Category != "" && e.Category != opts.Category {
			continue
		}
		if !opts.Since.IsZero() && e.OccurredAt.Before(opts.Since) {
			continue
		}
		if !opts.Until.IsZero() && !e.OccurredAt.Before(opts.Until) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	limit := clampLimit(opts.Limit)
	if opts.Offset >= len(out) {
		return nil, nil
	}
	out = out[opts.Offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
