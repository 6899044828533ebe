package handler

import "testing"

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		current, target string
		wantErr         bool
	}{
		{"scheduled", "completed", false},
		{"scheduled", "cancelled", false},
		{"overdue", "completed", false},
		{"in_progress", "completed", false},
		{"completed", "scheduled", false},
		{"completed", "in_progress", true},
		{"cancelled", "completed", true},
		{"scheduled", "scheduled", true},
	}
	for _, tc := range cases {
		err := ValidateTransition(inspectionTransitions, tc.current, tc.target)
		if (err != nil) != tc.wantErr {
			t.Errorf("ValidateTransition(%s -> %s) err = %v, wantErr %v", tc.current, tc.target, err, tc.wantErr)
		}
	}
}

func TestValidateTransitionUnknownState(t *testing.T) {
	if err := ValidateTransition(violationTransitions, "pending", "closed"); err == nil {
		t.Error("expected error for unknown current state")
	}
}

func TestViolationTransitions(t *testing.T) {
	if err := ValidateTransition(violationTransitions, "open", "closed"); err != nil {
		t.Errorf("open -> closed should be allowed: %v", err)
	}
	if err := ValidateTransition(violationTransitions, "closed", "open"); err != nil {
		t.Errorf("closed -> open should be allowed: %v", err)
	}
}
