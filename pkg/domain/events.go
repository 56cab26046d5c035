package domain

import (
	"context"
	"time"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversation_id"`
	ScenarioID     string    `json:"scenario_id"`
}

// PhaseEvent reports a state machine transition.
type PhaseEvent struct {
	EventBase
	From Phase `json:"from"`
	To   Phase `json:"to"`
}

// LineEvent reports a candidate line entering the transcript.
type LineEvent struct {
	EventBase
	NodeID  string `json:"node_id"`
	Text    string `json:"text"`
	Dynamic bool   `json:"dynamic,omitempty"`
}

// ReplyEvent reports an accepted interviewer reply.
type ReplyEvent struct {
	EventBase
	NodeID   string       `json:"node_id"`
	Option   DialogOption `json:"option"`
	Text     string       `json:"text"`
	FreeText bool         `json:"free_text,omitempty"`
}

// FallbackEvent reports a reply provider failure replaced by the scripted line.
type FallbackEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Err    error  `json:"-"`
}

// FinishEvent reports the end of a conversation.
type FinishEvent struct {
	EventBase
	Score int `json:"score"` // normalized 0..10
	Turns int `json:"turns"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously while the engine holds its lock and must not call back into it.
type LifecycleHooks struct {
	OnPhaseChange   func(context.Context, *PhaseEvent)
	OnCandidateLine func(context.Context, *LineEvent)
	OnReply         func(context.Context, *ReplyEvent)
	OnFallback      func(context.Context, *FallbackEvent)
	OnFinish        func(context.Context, *FinishEvent)
}

// Merge returns hooks that invoke h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPhaseChange:   chain(h.OnPhaseChange, other.OnPhaseChange),
		OnCandidateLine: chain(h.OnCandidateLine, other.OnCandidateLine),
		OnReply:         chain(h.OnReply, other.OnReply),
		OnFallback:      chain(h.OnFallback, other.OnFallback),
		OnFinish:        chain(h.OnFinish, other.OnFinish),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
