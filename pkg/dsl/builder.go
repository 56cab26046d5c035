package dsl

import (
	"fmt"

	"github.com/aretw0/rehearse/pkg/catalog"
	"github.com/aretw0/rehearse/pkg/domain"
)

// Builder manages the scenario construction.
type Builder struct {
	scenario domain.Scenario
	nodes    map[string]*NodeBuilder
	order    []string
}

// New creates a new scenario builder.
func New(id string) *Builder {
	return &Builder{
		scenario: domain.Scenario{
			ID:      id,
			Persona: domain.Persona{Voice: domain.DefaultVoice},
		},
		nodes: make(map[string]*NodeBuilder),
	}
}

func (b *Builder) Title(title string) *Builder {
	b.scenario.Title = title
	return b
}

func (b *Builder) Description(desc string) *Builder {
	b.scenario.Description = desc
	return b
}

func (b *Builder) Icon(icon string) *Builder {
	b.scenario.Icon = icon
	return b
}

// Persona sets the simulated candidate.
func (b *Builder) Persona(name, role string) *Builder {
	b.scenario.Persona.Name = name
	b.scenario.Persona.Role = role
	return b
}

// Voice tunes speech synthesis for the persona.
func (b *Builder) Voice(v domain.VoiceProfile) *Builder {
	b.scenario.Persona.Voice = v
	return b
}

// TotalTurns sets the expected number of replies, used for progress only.
func (b *Builder) TotalTurns(n int) *Builder {
	b.scenario.TotalTurns = n
	return b
}

// Feedback sets the static end-of-session advice.
func (b *Builder) Feedback(rec domain.FeedbackRecord) *Builder {
	b.scenario.Feedback = rec
	return b
}

// Band adds score-dependent advice for normalized scores in [min, max].
func (b *Builder) Band(min, max int, rec domain.FeedbackRecord) *Builder {
	b.scenario.DynamicFeedback = append(b.scenario.DynamicFeedback, domain.FeedbackBand{Min: min, Max: max, FeedbackRecord: rec})
	return b
}

// Node creates a new node in the dialog tree.
// If the node already exists, it returns the existing builder.
func (b *Builder) Node(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{node: domain.DialogNode{ID: id}}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build assembles and validates the scenario.
func (b *Builder) Build() (*domain.Scenario, error) {
	s := b.scenario
	s.DialogTree = make(map[string]domain.DialogNode, len(b.nodes))
	s.NodeOrder = append([]string(nil), b.order...)
	for id, nb := range b.nodes {
		node := nb.node
		node.Options = append([]domain.DialogOption(nil), nb.node.Options...)
		s.DialogTree[id] = node
	}

	if err := catalog.Validate(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidScenario, err)
	}
	return &s, nil
}

// MustBuild is like Build but panics on an invalid scenario.
func (b *Builder) MustBuild() *domain.Scenario {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
