package engine

import (
	"strings"

	"github.com/matthewbaird/compliance/internal/types"
)

// Per-factor weights for the risk score.
const (
	overdueWeight      = 25
	criticalOpenWeight = 30
	dueSoonWeight      = 10
)

// riskCategorySeverity normalizes jurisdiction risk categories to the four
// severity tiers. Sources like NYC open-data feeds carry a raw category
// instead of a severity; everything unmapped defaults to medium.
var riskCategorySeverity = map[string]types.Severity{
	"FIRE":       types.SeverityCritical,
	"STRUCTURAL": types.SeverityHigh,
	"ELECTRICAL": types.SeverityHigh,
	"MECHANICAL": types.SeverityMedium,
	"PLUMBING":   types.SeverityMedium,
	"HOUSING":    types.SeverityLow,
	"ZONING":     types.SeverityLow,
}

// NormalizeSeverity returns the violation's severity, inferring one from
// the jurisdiction risk category when the source did not set a tier.
func NormalizeSeverity(v types.Violation) types.Severity {
	switch v.Severity {
	case types.SeverityCritical, types.SeverityHigh, types.SeverityMedium, types.SeverityLow:
		return v.Severity
	}
	if sev, ok := riskCategorySeverity[strings.ToUpper(v.RiskCategory)]; ok {
		return sev
	}
	return types.SeverityMedium
}

// AggregateRisk computes a bounded risk score and level from classified
// inspections and violations. Inspections must be enriched first — the
// counts read CalculatedStatus, not raw status. Empty input yields score
// 0, level low.
func AggregateRisk(inspections []types.InspectionRecord, violations []types.Violation) types.RiskAssessment {
	var factors types.FactorBreakdown
	for _, insp := range inspections {
		switch insp.CalculatedStatus {
		case types.StatusOverdue:
			factors.OverdueInspections++
		case types.StatusDueSoon:
			factors.DueSoonInspections++
		}
	}
	for _, v := range violations {
		if v.Status == types.ViolationOpen && NormalizeSeverity(v) == types.SeverityCritical {
			factors.CriticalOpen++
		}
	}

	score := factors.OverdueInspections*overdueWeight +
		factors.CriticalOpen*criticalOpenWeight +
		factors.DueSoonInspections*dueSoonWeight
	if score > 100 {
		score = 100
	}

	return types.RiskAssessment{
		RiskScore: score,
		RiskLevel: riskLevelForScore(score),
		Factors:   factors,
	}
}

// riskLevelForScore buckets a score, highest threshold first.
func riskLevelForScore(score int) types.RiskLevel {
	switch {
	case score >= 80:
		return types.RiskCritical
	case score >= 50:
		return types.RiskHigh
	case score >= 25:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}
