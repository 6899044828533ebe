package types

import (
	"encoding/json"
	"time"
)

// SourceRef identifies an entity referenced by a domain event.
type SourceRef struct {
	EntityType string `json:"entity_type"` // "property", "inspection", "violation"
	EntityID   string `json:"entity_id"`
	Role       string `json:"role"` // "subject", "context", "related"
}

// ActivityEntry is one line of the compliance activity log, keyed by a
// referenced entity. One domain event produces one entry per affected
// entity.
type ActivityEntry struct {
	EventID           string          `json:"event_id"`
	EventType         string          `json:"event_type"`
	OccurredAt        time.Time       `json:"occurred_at"`
	IndexedEntityType string          `json:"indexed_entity_type"`
	IndexedEntityID   string          `json:"indexed_entity_id"`
	EntityRole        string          `json:"entity_role"`
	SourceRefs        []SourceRef     `json:"source_refs"`
	Summary           string          `json:"summary"`
	Category          string          `json:"category"` // "inspection", "violation", "property"
	Payload           json.RawMessage `json:"payload,omitempty"`
}
