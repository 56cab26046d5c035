package domain

import "time"

// Phase is the position of a conversation in the dialog state machine.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseCandidateSpeaking Phase = "candidate_speaking"
	PhaseAwaitingReply     Phase = "awaiting_reply"
	PhaseThinking          Phase = "thinking"
	PhaseFinished          Phase = "finished"
)

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerPersona Speaker = "persona"
	SpeakerUser    Speaker = "user"
)

// UserName is the display name for interviewer entries.
const UserName = "You"

// TranscriptEntry is one line of the conversation.
type TranscriptEntry struct {
	Speaker Speaker `json:"speaker"`
	Name    string  `json:"name"`
	// NodeID is the node a persona line presents, or the node a reply answers.
	NodeID      string  `json:"node_id,omitempty"`
	Text        string  `json:"text"`
	Quality     Quality `json:"quality,omitempty"`
	CoachingTip string  `json:"coaching_tip,omitempty"`
	// Dynamic marks persona lines produced by the reply provider instead of the script.
	Dynamic bool `json:"dynamic,omitempty"`
}

// Coaching is the feedback shown right after a reply.
type Coaching struct {
	Quality Quality `json:"quality"`
	Tip     string  `json:"tip"`
}

// Conversation is the runtime snapshot of a practice session.
type Conversation struct {
	// ID correlates logs and events of one session. It changes on every start.
	ID         string `json:"id,omitempty"`
	ScenarioID string `json:"scenario_id,omitempty"`

	// CurrentNodeID is empty before the first line and after the terminal reply.
	CurrentNodeID string `json:"current_node_id,omitempty"`
	Phase         Phase  `json:"phase"`

	TotalScore    int              `json:"total_score"`
	TurnCount     int              `json:"turn_count"`
	CategoryScore map[Category]int `json:"category_score"`
	CategoryCount map[Category]int `json:"category_count"`

	Transcript   []TranscriptEntry `json:"transcript"`
	LastCoaching *Coaching         `json:"last_coaching,omitempty"`

	// Draft is free text accumulated from speech recognition, not yet submitted.
	Draft     string `json:"draft,omitempty"`
	Interim   string `json:"interim,omitempty"`
	Listening bool   `json:"listening,omitempty"`

	DynamicMode bool      `json:"dynamic_mode"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
}

// NewConversation creates a clean idle conversation.
func NewConversation() Conversation {
	return Conversation{
		Phase:         PhaseIdle,
		CategoryScore: make(map[Category]int),
		CategoryCount: make(map[Category]int),
		Transcript:    []TranscriptEntry{},
	}
}

// Clone returns a deep copy safe to hand to presentation layers.
func (c Conversation) Clone() Conversation {
	out := c
	out.CategoryScore = make(map[Category]int, len(c.CategoryScore))
	for k, v := range c.CategoryScore {
		out.CategoryScore[k] = v
	}
	out.CategoryCount = make(map[Category]int, len(c.CategoryCount))
	for k, v := range c.CategoryCount {
		out.CategoryCount[k] = v
	}
	out.Transcript = append([]TranscriptEntry(nil), c.Transcript...)
	if out.Transcript == nil {
		out.Transcript = []TranscriptEntry{}
	}
	if c.LastCoaching != nil {
		coaching := *c.LastCoaching
		out.LastCoaching = &coaching
	}
	return out
}

// Elapsed is the session duration so far, or the total once finished.
func (c Conversation) Elapsed(now time.Time) time.Duration {
	if c.StartedAt.IsZero() {
		return 0
	}
	if !c.FinishedAt.IsZero() {
		return c.FinishedAt.Sub(c.StartedAt)
	}
	return now.Sub(c.StartedAt)
}
