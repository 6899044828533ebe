package handler

import "fmt"

// inspectionTransitions lists the raw statuses an inspection may move to
// from each current status. Date-derived statuses (due_soon, overdue) are
// never set by clients; they appear here only as sources.
var inspectionTransitions = map[string][]string{
	"scheduled":   {"in_progress", "completed", "cancelled"},
	"due_soon":    {"in_progress", "completed", "cancelled"},
	"overdue":     {"in_progress", "completed", "cancelled"},
	"in_progress": {"completed", "cancelled"},
	"completed":   {"scheduled"},
	"cancelled":   {"scheduled"},
}

// violationTransitions: a violation can only close, and a closed one
// can reopen if the jurisdiction reinstates it.
var violationTransitions = map[string][]string{
	"open":   {"closed"},
	"closed": {"open"},
}

// ValidateTransition checks whether transitioning from current to target is
// allowed according to the given transition map. It returns nil if the
// transition is valid, or a descriptive error otherwise.
func ValidateTransition(transitions map[string][]string, current, target string) error {
	allowed, ok := transitions[current]
	if !ok {
		return fmt.Errorf("unknown current state: %s", current)
	}
	for _, s := range allowed {
		if s == target {
			return nil
		}
	}
	return fmt.Errorf("transition from %q to %q is not allowed", current, target)
}
