package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/compliance/internal/engine"
	"github.com/matthewbaird/compliance/internal/event"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	seen := map[string][]string{}
	record := func(name string) Handler {
		return func(_ context.Context, ev event.DomainEvent) {
			mu.Lock()
			seen[name] = append(seen[name], ev.EventType)
			mu.Unlock()
		}
	}
	bus.Subscribe("first", record("first"))
	bus.Subscribe("second", record("second"))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Start(ctx)

	bus.Publish(event.DomainEvent{ID: "e1", EventType: "inspection_completed"})
	bus.Publish(event.DomainEvent{ID: "e2", EventType: "violation_issued"})

	cancel()
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"inspection_completed", "violation_issued"}, seen["first"])
	assert.Equal(t, []string{"inspection_completed", "violation_issued"}, seen["second"])
}

func TestBusDrainsBufferedEventsOnShutdown(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var count int
	bus.Subscribe("counter", func(context.Context, event.DomainEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	for i := 0; i < 10; i++ {
		bus.Publish(event.DomainEvent{EventType: "inspection_overdue"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus.Start(ctx)
	cancel()
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, count)
}

func TestBusSurvivesPanickingSubscriber(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var delivered bool
	bus.Subscribe("panics", func(context.Context, event.DomainEvent) {
		panic("boom")
	})
	bus.Subscribe("survives", func(context.Context, event.DomainEvent) {
		mu.Lock()
		delivered = true
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.Start(ctx)
	bus.Publish(event.DomainEvent{EventType: "violation_resolved"})
	cancel()
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, delivered)
}

func TestRiskConsumerRecompute(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	prop := types.Property{Name: "80 Pine Street"}
	require.NoError(t, s.CreateProperty(ctx, &prop))

	overdue := types.InspectionRecord{
		PropertyID:     prop.ID,
		InspectionType: "Fire Alarm Inspection",
		Frequency:      types.FrequencyAnnual,
		RawStatus:      types.StatusScheduled,
		NextDueDate:    time.Now().AddDate(0, 0, -10),
	}
	require.NoError(t, s.CreateInspection(ctx, &overdue))

	consumer := NewRiskConsumer(s, func() engine.ClassifierConfig { return engine.ClassifierConfig{} })
	assessment, err := consumer.Recompute(ctx, prop.ID)
	require.NoError(t, err)

	assert.Equal(t, 25, assessment.RiskScore)
	assert.Equal(t, types.RiskMedium, assessment.RiskLevel)
	assert.Equal(t, 1, assessment.Factors.OverdueInspections)
}

func TestRiskConsumerIgnoresPropertyEvents(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	consumer := NewRiskConsumer(s, func() engine.ClassifierConfig { return engine.ClassifierConfig{} })
	// No property in the store; a category we ignore must not log errors
	// or touch the cache.
	consumer.Handle(context.Background(), event.DomainEvent{
		Category: "property",
		AffectedEntities: []types.SourceRef{
			{EntityType: "property", EntityID: "missing", Role: "subject"},
		},
	})
	consumer.mu.Lock()
	defer consumer.mu.Unlock()
	assert.Empty(t, consumer.levels)
}
