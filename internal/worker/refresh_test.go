package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/compliance/internal/activity"
	"github.com/matthewbaird/compliance/internal/engine"
	"github.com/matthewbaird/compliance/internal/event"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

func defaultCfg() engine.ClassifierConfig { return engine.ClassifierConfig{} }

func seedProperty(t *testing.T, s store.Store) types.Property {
	t.Helper()
	p := types.Property{Name: "120 Broadway"}
	require.NoError(t, s.CreateProperty(context.Background(), &p))
	return p
}

func seedInspection(t *testing.T, s store.Store, propertyID string, due time.Time, raw types.Status) types.InspectionRecord {
	t.Helper()
	rec := types.InspectionRecord{
		PropertyID:     propertyID,
		InspectionType: "Boiler Inspection",
		Frequency:      types.FrequencyAnnual,
		RawStatus:      raw,
		NextDueDate:    due,
	}
	require.NoError(t, s.CreateInspection(context.Background(), &rec))
	return rec
}

func TestRunOnceMarksOverdue(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	p := seedProperty(t, s)

	past := seedInspection(t, s, p.ID, time.Now().AddDate(0, 0, -5), types.StatusScheduled)
	future := seedInspection(t, s, p.ID, time.Now().AddDate(0, 0, 90), types.StatusScheduled)

	w := NewRefreshWorker(s, event.NopRecorder{}, defaultCfg)
	n, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetInspection(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusOverdue, got.RawStatus)

	got, err = s.GetInspection(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusScheduled, got.RawStatus)
}

func TestRunOnceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	p := seedProperty(t, s)
	seedInspection(t, s, p.ID, time.Now().AddDate(0, 0, -5), types.StatusScheduled)

	w := NewRefreshWorker(s, event.NopRecorder{}, defaultCfg)
	n, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "second sweep finds nothing new")
}

func TestRunOnceSkipsTerminalRecords(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	p := seedProperty(t, s)
	done := seedInspection(t, s, p.ID, time.Now().AddDate(0, 0, -5), types.StatusCompleted)

	w := NewRefreshWorker(s, event.NopRecorder{}, defaultCfg)
	n, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := s.GetInspection(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, got.RawStatus)
}

func TestRunOnceRecordsOverdueEvents(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	p := seedProperty(t, s)
	rec := seedInspection(t, s, p.ID, time.Now().AddDate(0, 0, -3), types.StatusScheduled)

	actStore := activity.NewMemoryStore()
	recorder := event.NewActivityRecorder(actStore, nil)

	w := NewRefreshWorker(s, recorder, defaultCfg)
	_, err := w.RunOnce(ctx)
	require.NoError(t, err)

	entries, err := actStore.QueryByEntity(ctx, "inspection", rec.ID, activity.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "inspection_overdue", entries[0].EventType)
	assert.Contains(t, entries[0].Summary, "3 day(s) overdue")
}
