package runtime

import "github.com/aretw0/rehearse/pkg/domain"

// OptionView is a suggested reply as offered to the interviewer.
// Scores and qualities stay hidden until the reply is given.
type OptionView struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// View is a consistent snapshot of everything a front end shows.
type View struct {
	Scenario     *domain.ScenarioSummary `json:"scenario,omitempty"`
	Conversation domain.Conversation     `json:"conversation"`
	// Options are offered only while a reply is awaited.
	Options  []OptionView `json:"options"`
	Progress int          `json:"progress"`
	Muted    bool         `json:"muted"`
}

// View snapshots the session under a single lock.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := View{
		Conversation: e.conv.Clone(),
		Options:      []OptionView{},
		Muted:        e.muted,
	}
	if e.scenario == nil {
		return v
	}

	summary := e.scenario.Summary()
	v.Scenario = &summary
	v.Progress = e.progressLocked()
	if node, ok := e.replyableLocked(); ok {
		for i, opt := range node.Options {
			v.Options = append(v.Options, OptionView{Index: i, Text: opt.Text})
		}
	}
	return v
}
