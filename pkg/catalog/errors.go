package catalog

import (
	"errors"
	"fmt"
)

// Issue is a single structural problem found in a scenario.
type Issue struct {
	Scenario string // Scenario id or source file
	Node     string // Node id, empty for scenario-level issues
	Reason   string
}

func (i Issue) Error() string {
	if i.Node == "" {
		return fmt.Sprintf("scenario %q: %s", i.Scenario, i.Reason)
	}
	return fmt.Sprintf("scenario %q node %q: %s", i.Scenario, i.Node, i.Reason)
}

// ValidationError aggregates every issue found while validating.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Issues))
	for i, issue := range e.Issues {
		msg += fmt.Sprintf("  %d. %s\n", i+1, issue.Error())
	}
	return msg
}

// Issues returns the validation issues if err wraps a *ValidationError.
// Otherwise returns nil.
func Issues(err error) []Issue {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Issues
	}
	return nil
}
