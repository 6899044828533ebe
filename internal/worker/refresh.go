// Package worker contains the scheduled refresh job that keeps stored
// statuses in step with the calendar.
package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/matthewbaird/compliance/internal/engine"
	"github.com/matthewbaird/compliance/internal/event"
	"github.com/matthewbaird/compliance/internal/store"
	"github.com/matthewbaird/compliance/internal/types"
)

const pageSize = 500

// RefreshWorker sweeps all inspection records, persists the overdue flag
// for records that crossed their due date, and emits overdue events.
// Derived urgency is never stored; only the raw status moves.
type RefreshWorker struct {
	store    store.Store
	recorder event.Recorder
	cfg      func() engine.ClassifierConfig
}

func NewRefreshWorker(s store.Store, recorder event.Recorder, cfg func() engine.ClassifierConfig) *RefreshWorker {
	return &RefreshWorker{store: s, recorder: recorder, cfg: cfg}
}

// Start schedules the sweep with the given cron spec and blocks scheduling
// until ctx is cancelled. The worker itself runs on the cron goroutine.
func (w *RefreshWorker) Start(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n, err := w.RunOnce(ctx); err != nil {
			log.Printf("refresh worker: %v", err)
		} else if n > 0 {
			log.Printf("refresh worker: marked %d inspection(s) overdue", n)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule refresh %q: %w", spec, err)
	}
	c.Start()
	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return nil
}

// RunOnce performs one sweep and returns the number of records flipped
// to overdue.
func (w *RefreshWorker) RunOnce(ctx context.Context) (int, error) {
	now := time.Now()
	flipped := 0
	for offset := 0; ; offset += pageSize {
		page, err := w.store.ListInspections(ctx, store.InspectionQuery{Limit: pageSize, Offset: offset})
		if err != nil {
			return flipped, fmt.Errorf("list inspections: %w", err)
		}
		if len(page) == 0 {
			break
		}
		enriched := engine.EnrichInspections(page, now, w.cfg())
		for i := range enriched {
			rec := enriched[i]
			if rec.CalculatedStatus != types.StatusOverdue {
				continue
			}
			if rec.RawStatus == types.StatusOverdue || rec.RawStatus.IsTerminal() {
				continue
			}
			rec.RawStatus = types.StatusOverdue
			if err := w.store.UpdateInspection(ctx, &rec); err != nil {
				return flipped, fmt.Errorf("mark overdue %s: %w", rec.ID, err)
			}
			flipped++
			if w.recorder != nil {
				evt := event.NewInspectionOverdue(event.InspectionOverduePayload{
					InspectionID:   rec.ID,
					PropertyID:     rec.PropertyID,
					InspectionType: rec.InspectionType,
					NextDueDate:    rec.NextDueDate,
					DaysOverdue:    -rec.DaysUntilDue,
				})
				if err := w.recorder.Record(ctx, evt); err != nil {
					log.Printf("refresh worker: record event: %v", err)
				}
			}
		}
		if len(page) < pageSize {
			break
		}
	}
	return flipped, nil
}
