package engine

import (
	"github.com/matthewbaird/compliance/internal/types"
)

// PeriodCounts holds record volumes for one time-bounded window. Period
// boundaries are the caller's concern — the analyzer never decides what
// "this month" means.
type PeriodCounts struct {
	Inspections int `json:"inspections"`
	Violations  int `json:"violations"`
}

// CountPeriod tallies records for a window already filtered by the caller.
func CountPeriod(inspections []types.InspectionRecord, violations []types.Violation) PeriodCounts {
	return PeriodCounts{
		Inspections: len(inspections),
		Violations:  len(violations),
	}
}

// Trend computes period-over-period percentage deltas. A rise in
// violations is an inverse signal on compliance, so the compliance trend
// is the negated violation trend.
func Trend(current, prior PeriodCounts) types.TrendSnapshot {
	violationTrend := pctChange(current.Violations, prior.Violations)
	return types.TrendSnapshot{
		InspectionTrend: pctChange(current.Inspections, prior.Inspections),
		ViolationTrend:  violationTrend,
		ComplianceTrend: -violationTrend,
	}
}

// pctChange is the signed percentage delta, defined as 0 when the prior
// count is 0 — a new-activity period is not an infinite increase.
func pctChange(current, prior int) float64 {
	if prior == 0 {
		return 0
	}
	return float64(current-prior) / float64(prior) * 100
}
