package domain

// VoiceProfile tunes speech synthesis for a persona.
type VoiceProfile struct {
	// PreferredVoices are matched by substring against the installed voice names, in order.
	PreferredVoices []string `json:"preferred_voices,omitempty"`
	Pitch           float64  `json:"pitch"`
	Rate            float64  `json:"rate"`
}

// DefaultVoice is used when a persona declares no profile.
var DefaultVoice = VoiceProfile{Pitch: 1, Rate: 1}

// Persona is the simulated candidate.
type Persona struct {
	Name   string       `json:"name"`
	Role   string       `json:"role"`
	Avatar string       `json:"avatar,omitempty"`
	Voice  VoiceProfile `json:"voice"`
}

// FeedbackRecord is the advice shown at the end of a session.
type FeedbackRecord struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Tips         []string `json:"tips"`
}

// FeedbackBand applies its record when the normalized score lies in [Min, Max].
type FeedbackBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
	FeedbackRecord
}

// Contains reports whether score falls inside the band, bounds inclusive.
func (b FeedbackBand) Contains(score int) bool {
	return b.Min <= score && score <= b.Max
}

// Scenario is one interview practice script.
type Scenario struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Icon        string  `json:"icon,omitempty"`
	Persona     Persona `json:"persona"`

	// TotalTurns drives the progress display only. It is never enforced.
	TotalTurns int `json:"total_turns"`

	DialogTree      map[string]DialogNode `json:"dialog_tree"`
	NodeOrder       []string              `json:"node_order"` // declaration order, for listings and exports
	DynamicFeedback []FeedbackBand        `json:"dynamic_feedback,omitempty"`
	Feedback        FeedbackRecord        `json:"feedback"`
}

// Node returns the node with the given id.
func (s *Scenario) Node(id string) (DialogNode, bool) {
	n, ok := s.DialogTree[id]
	return n, ok
}

// Nodes returns the nodes in declaration order.
func (s *Scenario) Nodes() []DialogNode {
	nodes := make([]DialogNode, 0, len(s.DialogTree))
	seen := make(map[string]bool, len(s.DialogTree))
	for _, id := range s.NodeOrder {
		if n, ok := s.DialogTree[id]; ok && !seen[id] {
			seen[id] = true
			nodes = append(nodes, n)
		}
	}
	// Nodes added without an order entry (hand-built scenarios) come last.
	for id, n := range s.DialogTree {
		if !seen[id] {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// MaxOptionScore is the highest score any option in the scenario awards.
// It never returns less than 1 so it can be used as a divisor.
func (s *Scenario) MaxOptionScore() int {
	best := 1
	for _, n := range s.DialogTree {
		for _, o := range n.Options {
			if o.Score > best {
				best = o.Score
			}
		}
	}
	return best
}

// ScenarioSummary is the catalog listing entry of a scenario.
type ScenarioSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Icon        string  `json:"icon,omitempty"`
	Persona     Persona `json:"persona"`
	TotalTurns  int     `json:"total_turns"`
}

// Summary drops the dialog tree and feedback.
func (s *Scenario) Summary() ScenarioSummary {
	return ScenarioSummary{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Icon:        s.Icon,
		Persona:     s.Persona,
		TotalTurns:  s.TotalTurns,
	}
}
