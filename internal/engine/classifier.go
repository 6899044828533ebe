// Package engine implements the compliance status and risk engine: urgency
// classification, recurrence scheduling, risk aggregation, trend analysis,
// and recommendation generation. Every function here is a pure transform
// over already-fetched records — no I/O, no state between calls, identical
// inputs always yield identical outputs.
package engine

import (
	"time"

	"github.com/matthewbaird/compliance/internal/types"
)

// DefaultDueSoonWindowDays is the default "due soon" window. The source
// dashboards disagreed on this value (7 vs 15 days), so callers can
// override it per request; the default is the shorter window.
const DefaultDueSoonWindowDays = 7

// scheduledHorizonDays is the upper bound of the medium-urgency band.
const scheduledHorizonDays = 30

// ClassifierConfig carries the tunable parts of urgency classification.
type ClassifierConfig struct {
	// DueSoonWindowDays is the inclusive number of days ahead that counts
	// as "due soon". Zero or negative means DefaultDueSoonWindowDays.
	DueSoonWindowDays int
}

func (c ClassifierConfig) dueSoonWindow() int {
	if c.DueSoonWindowDays > 0 {
		return c.DueSoonWindowDays
	}
	return DefaultDueSoonWindowDays
}

// Classification is the derived state for one inspection record.
type Classification struct {
	DaysUntilDue     int                `json:"days_until_due"`
	UrgencyLevel     types.UrgencyLevel `json:"urgency_level"`
	CalculatedStatus types.Status       `json:"calculated_status"`
}

// Classify derives days-until-due, urgency, and calculated status from a
// due date and today's date. Time-of-day is ignored on both operands.
//
// Urgency is always date-driven. A terminal raw status (completed,
// cancelled, in progress) overrides the calculated status only.
func Classify(nextDue, today time.Time, rawStatus types.Status, cfg ClassifierConfig) Classification {
	days := daysBetween(today, nextDue)
	window := cfg.dueSoonWindow()

	var urgency types.UrgencyLevel
	var status types.Status
	switch {
	case days < 0:
		urgency = types.UrgencyCritical
		status = types.StatusOverdue
	case days <= window:
		urgency = types.UrgencyHigh
		status = types.StatusDueSoon
	case days <= scheduledHorizonDays:
		urgency = types.UrgencyMedium
		status = types.StatusScheduled
	default:
		urgency = types.UrgencyLow
		status = types.StatusScheduled
	}

	if rawStatus.IsTerminal() {
		status = rawStatus
	}

	return Classification{
		DaysUntilDue:     days,
		UrgencyLevel:     urgency,
		CalculatedStatus: status,
	}
}

// EnrichInspections returns a copy of the given records with the derived
// fields populated. The input slice is not modified.
func EnrichInspections(records []types.InspectionRecord, today time.Time, cfg ClassifierConfig) []types.InspectionRecord {
	if len(records) == 0 {
		return nil
	}
	enriched := make([]types.InspectionRecord, len(records))
	for i, rec := range records {
		c := Classify(rec.NextDueDate, today, rec.RawStatus, cfg)
		rec.DaysUntilDue = c.DaysUntilDue
		rec.UrgencyLevel = c.UrgencyLevel
		rec.CalculatedStatus = c.CalculatedStatus
		enriched[i] = rec
	}
	return enriched
}

// daysBetween counts calendar days from a to b after truncating both to
// midnight. Negative when b is before a.
func daysBetween(a, b time.Time) int {
	at := truncateToDay(a)
	bt := truncateToDay(b)
	return int(bt.Sub(at).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
