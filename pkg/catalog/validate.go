package catalog

import (
	"fmt"

	"github.com/aretw0/rehearse/pkg/domain"
)

// Validate checks the structural invariants the engine relies on:
// identity fields present, a start node, resolvable reply targets, known labels,
// and well-formed feedback bands. All problems are reported together.
func Validate(s *domain.Scenario) error {
	var issues []Issue
	add := func(node, format string, args ...any) {
		issues = append(issues, Issue{Scenario: s.ID, Node: node, Reason: fmt.Sprintf(format, args...)})
	}

	if s.ID == "" {
		add("", "missing id")
	}
	if s.Persona.Name == "" {
		add("", "missing persona name")
	}
	if _, ok := s.Node(domain.StartNodeID); !ok {
		add("", "missing %q node", domain.StartNodeID)
	}

	for _, node := range s.Nodes() {
		if node.ID == "" {
			add("", "node with empty id")
		}
		for i, opt := range node.Options {
			if opt.NextID != nil {
				if _, ok := s.Node(*opt.NextID); !ok {
					add(node.ID, "option %d points to missing node %q", i, *opt.NextID)
				}
			}
			if !opt.Quality.Valid() {
				add(node.ID, "option %d has unknown quality %q", i, opt.Quality)
			}
			if !opt.Category.Valid() {
				add(node.ID, "option %d has unknown category %q", i, opt.Category)
			}
		}
	}

	for i, band := range s.DynamicFeedback {
		if band.Min > band.Max {
			add("", "feedback band %d has min %d above max %d", i, band.Min, band.Max)
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
