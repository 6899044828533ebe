package event

import (
	"context"
	"fmt"
	"log"

	"github.com/matthewbaird/compliance/internal/activity"
	"github.com/matthewbaird/compliance/internal/types"
)

// Recorder persists domain events and hands them to the in-process bus.
type Recorder interface {
	Record(ctx context.Context, ev DomainEvent) error
}

// Publisher is the subset of the event bus the recorder needs.
type Publisher interface {
	Publish(ev DomainEvent)
}

// ActivityRecorder writes one activity entry per affected entity, then
// publishes the event on the bus. Persistence failures are returned;
// publish is fire-and-forget.
type ActivityRecorder struct {
	store activity.Store
	bus   Publisher
}

func NewActivityRecorder(store activity.Store, bus Publisher) *ActivityRecorder {
	return &ActivityRecorder{store: store, bus: bus}
}

func (r *ActivityRecorder) Record(ctx context.Context, ev DomainEvent) error {
	entries := make([]types.ActivityEntry, 0, len(ev.AffectedEntities))
	for _, ref := range ev.AffectedEntities {
		entries = append(entries, types.ActivityEntry{
			EventID:           ev.ID,
			EventType:         ev.EventType,
			OccurredAt:        ev.OccurredAt,
			IndexedEntityType: ref.EntityType,
			IndexedEntityID:   ref.EntityID,
			EntityRole:        ref.Role,
			SourceRefs:        ev.AffectedEntities,
			Summary:           ev.Summary,
			Category:          ev.Category,
			Payload:           ev.Payload,
		})
	}
	if err := r.store.WriteEntries(ctx, entries); err != nil {
		return fmt.Errorf("record %s: %w", ev.EventType, err)
	}
	if r.bus != nil {
		r.bus.Publish(ev)
	}
	return nil
}

// NopRecorder discards events, for tests and tools that do not need a log.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, DomainEvent) error { return nil }

// LoggingRecorder wraps another recorder and logs each event as it passes.
type LoggingRecorder struct {
	Next Recorder
}

func (r LoggingRecorder) Record(ctx context.Context, ev DomainEvent) error {
	log.Printf("event %s: %s", ev.EventType, ev.Summary)
	if r.Next == nil {
		return nil
	}
	return r.Next.Record(ctx, ev)
}
