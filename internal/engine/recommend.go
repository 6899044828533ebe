package engine

import (
	"fmt"

	"github.com/matthewbaird/compliance/internal/types"
)

// costOutlierFactor flags completed inspections costing more than this
// multiple of the portfolio average.
const costOutlierFactor = 1.5

// Recommend evaluates the remediation rules in declaration order against
// classified inspections, violations, and completed cost records. Rules
// are independent: each appends zero or one recommendation, none
// suppresses another, and the output order is the rule order — urgent
// items before planning before optimization. That ordering is part of the
// API contract, not incidental.
func Recommend(inspections []types.InspectionRecord, violations []types.Violation, costs []types.CostRecord) []types.Recommendation {
	var recs []types.Recommendation

	if n := countByStatus(inspections, types.StatusOverdue); n > 0 {
		recs = append(recs, types.Recommendation{
			Type:        types.RecommendationUrgent,
			Title:       "Address Overdue Inspections",
			Description: fmt.Sprintf("%d inspection(s) are past their due date and out of compliance.", n),
			Action:      "Schedule immediately",
			Priority:    types.PriorityHigh,
		})
	}

	if n := countCriticalOpen(violations); n > 0 {
		recs = append(recs, types.Recommendation{
			Type:        types.RecommendationUrgent,
			Title:       "Resolve Critical Violations",
			Description: fmt.Sprintf("%d open violation(s) carry critical severity.", n),
			Action:      "Assign remediation vendor",
			Priority:    types.PriorityCritical,
		})
	}

	if n := countByStatus(inspections, types.StatusDueSoon); n > 0 {
		recs = append(recs, types.Recommendation{
			Type:        types.RecommendationPlanning,
			Title:       "Schedule Upcoming Inspections",
			Description: fmt.Sprintf("%d inspection(s) come due within the current window.", n),
			Action:      "Book inspection dates",
			Priority:    types.PriorityMedium,
		})
	}

	if n := countCostOutliers(costs); n > 0 {
		recs = append(recs, types.Recommendation{
			Type:        types.RecommendationOptimization,
			Title:       "Review High-Cost Inspections",
			Description: fmt.Sprintf("%d completed inspection(s) cost more than %.1fx the average.", n, costOutlierFactor),
			Action:      "Compare vendor pricing",
			Priority:    types.PriorityLow,
		})
	}

	return recs
}

func countByStatus(inspections []types.InspectionRecord, status types.Status) int {
	n := 0
	for _, insp := range inspections {
		if insp.CalculatedStatus == status {
			n++
		}
	}
	return n
}

func countCriticalOpen(violations []types.Violation) int {
	n := 0
	for _, v := range violations {
		if v.Status == types.ViolationOpen && NormalizeSeverity(v) == types.SeverityCritical {
			n++
		}
	}
	return n
}

// countCostOutliers counts records above costOutlierFactor times the mean
// actual cost. Empty input means no average and no outliers.
func countCostOutliers(costs []types.CostRecord) int {
	if len(costs) == 0 {
		return 0
	}
	var total int64
	for _, c := range costs {
		total += c.ActualCostCents
	}
	avg := float64(total) / float64(len(costs))

	n := 0
	for _, c := range costs {
		if float64(c.ActualCostCents) > avg*costOutlierFactor {
			n++
		}
	}
	return n
}
