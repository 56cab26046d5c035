package catalog

import (
	"fmt"

	"github.com/aretw0/rehearse/internal/validator"
	"github.com/aretw0/rehearse/pkg/domain"
)

// WalkSlack is how many replies past TotalTurns a first-option walk may take.
const WalkSlack = 2

// Finding is a content problem that does not stop a scenario from running.
type Finding struct {
	Node    string `json:"node,omitempty"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	if f.Node == "" {
		return f.Message
	}
	return fmt.Sprintf("%s: %s", f.Node, f.Message)
}

var expectedQuality = map[int]domain.Quality{
	3: domain.QualityExcellent,
	2: domain.QualityAdequate,
	1: domain.QualityPoor,
}

// Lint reports rubric and pacing problems in a valid scenario.
func Lint(s *domain.Scenario) []Finding {
	var findings []Finding

	for _, node := range s.Nodes() {
		for i, opt := range node.Options {
			want, ok := expectedQuality[opt.Score]
			if !ok {
				findings = append(findings, Finding{node.ID, fmt.Sprintf("option %d score %d outside 1..3", i, opt.Score)})
				continue
			}
			if opt.Quality != want {
				findings = append(findings, Finding{node.ID, fmt.Sprintf("option %d score %d labelled %q, expected %q", i, opt.Score, opt.Quality, want)})
			}
		}
	}

	for _, id := range validator.Unreachable(s, domain.StartNodeID) {
		findings = append(findings, Finding{id, "unreachable from start"})
	}

	walk := validator.WalkOption(s, domain.StartNodeID, s.TotalTurns+WalkSlack, validator.FirstOption)
	if !walk.Terminated {
		findings = append(findings, Finding{"", fmt.Sprintf("first-option walk does not end within %d replies", s.TotalTurns+WalkSlack)})
	}

	return findings
}
