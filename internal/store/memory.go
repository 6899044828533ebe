package store

import (
	"context"
	"sort"
	"sync"

	"github.com/matthewbaird/compliance/internal/types"
)

// MemoryStore implements Store with in-memory maps. Intended for demos
// and tests — no SQLite file required.
type MemoryStore struct {
	mu          sync.RWMutex
	properties  map[string]types.Property
	inspections map[string]types.InspectionRecord
	violations  map[string]types.Violation
	costs       map[string]types.CostRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		properties:  make(map[string]types.Property),
		inspections: make(map[string]types.InspectionRecord),
		violations:  make(map[string]types.Violation),
		costs:       make(map[string]types.CostRecord),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateProperty(_ context.Context, p *types.Property) error {
	ensureID(&p.ID)
	touch(&p.CreatedAt, &p.UpdatedAt)
	if err := ValidateProperty(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetProperty(_ context.Context, id string) (*types.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListProperties(_ context.Context, limit, offset int) ([]types.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Property, 0, len(s.properties))
	for _, p := range s.properties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (s *MemoryStore) UpdateProperty(_ context.Context, p *types.Property) error {
	touch(&p.CreatedAt, &p.UpdatedAt)
	if err := ValidateProperty(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[p.ID]; !ok {
		return ErrNotFound
	}
	s.properties[p.ID] = *p
	return nil
}

func (s *MemoryStore) CreateInspection(_ context.Context, rec *types.InspectionRecord) error {
	ensureID(&rec.ID)
	touch(&rec.CreatedAt, &rec.UpdatedAt)
	if err := ValidateInspection(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inspections[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) GetInspection(_ context.Context, id string) (*types.InspectionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.inspections[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) ListInspections(_ context.Context, q InspectionQuery) ([]types.InspectionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.InspectionRecord
	for _, rec := range s.inspections {
		if q.PropertyID != "" && rec.PropertyID != q.PropertyID {
			continue
		}
		if q.RawStatus != "" && rec.RawStatus != q.RawStatus {
			continue
		}
		if q.DueAfter != nil && rec.NextDueDate.Before(*q.DueAfter) {
			continue
		}
		if q.DueBefore != nil && !rec.NextDueDate.Before(*q.DueBefore) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextDueDate.Before(out[j].NextDueDate) })
	return paginate(out, q.Limit, q.Offset), nil
}

func (s *MemoryStore) UpdateInspection(_ context.Context, rec *types.InspectionRecord) error {
	touch(&rec.CreatedAt, &rec.UpdatedAt)
	if err := ValidateInspection(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inspections[rec.ID]; !ok {
		return ErrNotFound
	}
	s.inspections[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) CreateViolation(_ context.Context, v *types.Violation) error {
	ensureID(&v.ID)
	if err := ValidateViolation(v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.violations[v.ID] = *v
	return nil
}

func (s *MemoryStore) GetViolation(_ context.Context, id string) (*types.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.violations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *MemoryStore) ListViolations(_ context.Context, q ViolationQuery) ([]types.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.Violation
	for _, v := range s.violations {
		if q.PropertyID != "" && v.PropertyID != q.PropertyID {
			continue
		}
		if q.Status != "" && v.Status != q.Status {
			continue
		}
		if q.Severity != "" && v.Severity != q.Severity {
			continue
		}
		if q.IssuedAfter != nil && v.IssuedDate.Before(*q.IssuedAfter) {
			continue
		}
		if q.IssuedBefore != nil && !v.IssuedDate.Before(*q.IssuedBefore) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedDate.After(out[j].IssuedDate) })
	return paginate(out, q.Limit, q.Offset), nil
}

func (s *MemoryStore) UpdateViolation(_ context.Context, v *types.Violation) error {
	if err := ValidateViolation(v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.violations[v.ID]; !ok {
		return ErrNotFound
	}
	s.violations[v.ID] = *v
	return nil
}

func (s *MemoryStore) CreateCostRecord(_ context.Context, c *types.CostRecord) error {
	ensureID(&c.ID)
	if err := ValidateCostRecord(c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costs[c.ID] = *c
	return nil
}

func (s *MemoryStore) ListCostRecords(_ context.Context, q CostQuery) ([]types.CostRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.CostRecord
	for _, c := range s.costs {
		if q.PropertyID != "" && c.PropertyID != q.PropertyID {
			continue
		}
		if q.CompletedAfter != nil && c.CompletedDate.Before(*q.CompletedAfter) {
			continue
		}
		if q.CompletedBefore != nil && !c.CompletedDate.Before(*q.CompletedBefore) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedDate.After(out[j].CompletedDate) })
	return paginate(out, q.Limit, 0), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	limit = clampLimit(limit)
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
