package engine

import (
	"testing"

	"github.com/matthewbaird/compliance/internal/types"
)

func classified(status types.Status) types.InspectionRecord {
	return types.InspectionRecord{CalculatedStatus: status}
}

func openViolation(sev types.Severity) types.Violation {
	return types.Violation{Status: types.ViolationOpen, Severity: sev}
}

func TestAggregateRisk_Empty(t *testing.T) {
	got := AggregateRisk(nil, nil)
	if got.RiskScore != 0 {
		t.Errorf("score = %d, want 0", got.RiskScore)
	}
	if got.RiskLevel != types.RiskLow {
		t.Errorf("level = %q, want low", got.RiskLevel)
	}
}

func TestAggregateRisk_WeightedSum(t *testing.T) {
	inspections := []types.InspectionRecord{
		classified(types.StatusOverdue),
		classified(types.StatusDueSoon),
		classified(types.StatusScheduled),
	}
	violations := []types.Violation{
		openViolation(types.SeverityCritical),
		openViolation(types.SeverityLow),
	}

	got := AggregateRisk(inspections, violations)
	// 1*25 + 1*30 + 1*10
	if got.RiskScore != 65 {
		t.Errorf("score = %d, want 65", got.RiskScore)
	}
	if got.RiskLevel != types.RiskHigh {
		t.Errorf("level = %q, want high", got.RiskLevel)
	}
	if got.Factors.OverdueInspections != 1 || got.Factors.CriticalOpen != 1 || got.Factors.DueSoonInspections != 1 {
		t.Errorf("factors = %+v, want 1/1/1", got.Factors)
	}
}

func TestAggregateRisk_ClampedAt100(t *testing.T) {
	// 2 overdue, 1 due soon, 1 critical open: min(100, 2*25+1*30+1*10) = 100.
	inspections := []types.InspectionRecord{
		classified(types.StatusOverdue),
		classified(types.StatusOverdue),
		classified(types.StatusDueSoon),
	}
	violations := []types.Violation{openViolation(types.SeverityCritical)}

	got := AggregateRisk(inspections, violations)
	if got.RiskScore != 100 {
		t.Errorf("score = %d, want 100 (clamped from 110)", got.RiskScore)
	}
	if got.RiskLevel != types.RiskCritical {
		t.Errorf("level = %q, want critical", got.RiskLevel)
	}
}

func TestAggregateRisk_ClosedCriticalDoesNotCount(t *testing.T) {
	violations := []types.Violation{
		{Status: types.ViolationClosed, Severity: types.SeverityCritical},
	}
	got := AggregateRisk(nil, violations)
	if got.RiskScore != 0 {
		t.Errorf("score = %d, want 0 for closed violations", got.RiskScore)
	}
}

func TestAggregateRisk_Monotonic(t *testing.T) {
	// Adding any single factor never lowers the score.
	base := AggregateRisk(
		[]types.InspectionRecord{classified(types.StatusOverdue)},
		[]types.Violation{openViolation(types.SeverityCritical)},
	)

	moreOverdue := AggregateRisk(
		[]types.InspectionRecord{classified(types.StatusOverdue), classified(types.StatusOverdue)},
		[]types.Violation{openViolation(types.SeverityCritical)},
	)
	if moreOverdue.RiskScore < base.RiskScore {
		t.Errorf("adding an overdue inspection lowered score: %d -> %d", base.RiskScore, moreOverdue.RiskScore)
	}

	moreDueSoon := AggregateRisk(
		[]types.InspectionRecord{classified(types.StatusOverdue), classified(types.StatusDueSoon)},
		[]types.Violation{openViolation(types.SeverityCritical)},
	)
	if moreDueSoon.RiskScore < base.RiskScore {
		t.Errorf("adding a due-soon inspection lowered score: %d -> %d", base.RiskScore, moreDueSoon.RiskScore)
	}

	moreCritical := AggregateRisk(
		[]types.InspectionRecord{classified(types.StatusOverdue)},
		[]types.Violation{openViolation(types.SeverityCritical), openViolation(types.SeverityCritical)},
	)
	if moreCritical.RiskScore < base.RiskScore {
		t.Errorf("adding a critical violation lowered score: %d -> %d", base.RiskScore, moreCritical.RiskScore)
	}
}

func TestRiskLevelThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  types.RiskLevel
	}{
		{0, types.RiskLow},
		{24, types.RiskLow},
		{25, types.RiskMedium},
		{49, types.RiskMedium},
		{50, types.RiskHigh},
		{79, types.RiskHigh},
		{80, types.RiskCritical},
		{100, types.RiskCritical},
	}
	for _, tc := range cases {
		if got := riskLevelForScore(tc.score); got != tc.want {
			t.Errorf("score %d: level = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestNormalizeSeverity_ExplicitTierWins(t *testing.T) {
	v := types.Violation{Severity: types.SeverityLow, RiskCategory: "FIRE"}
	if got := NormalizeSeverity(v); got != types.SeverityLow {
		t.Errorf("got %q, want the explicit low tier", got)
	}
}

func TestNormalizeSeverity_CategoryTable(t *testing.T) {
	cases := []struct {
		category string
		want     types.Severity
	}{
		{"FIRE", types.SeverityCritical},
		{"STRUCTURAL", types.SeverityHigh},
		{"ELECTRICAL", types.SeverityHigh},
		{"MECHANICAL", types.SeverityMedium},
		{"PLUMBING", types.SeverityMedium},
		{"HOUSING", types.SeverityLow},
		{"ZONING", types.SeverityLow},
		{"fire", types.SeverityCritical}, // case-insensitive
		{"SOMETHING_NEW", types.SeverityMedium},
		{"", types.SeverityMedium},
	}
	for _, tc := range cases {
		v := types.Violation{RiskCategory: tc.category}
		if got := NormalizeSeverity(v); got != tc.want {
			t.Errorf("category %q: got %q, want %q", tc.category, got, tc.want)
		}
	}
}

func TestAggregateRisk_RiskCategoryNormalizedBeforeCounting(t *testing.T) {
	// An open FIRE violation with no severity tier counts as critical.
	violations := []types.Violation{
		{Status: types.ViolationOpen, RiskCategory: "FIRE"},
	}
	got := AggregateRisk(nil, violations)
	if got.Factors.CriticalOpen != 1 {
		t.Errorf("critical open = %d, want 1 via FIRE normalization", got.Factors.CriticalOpen)
	}
	if got.RiskScore != 30 {
		t.Errorf("score = %d, want 30", got.RiskScore)
	}
}
