package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/rehearse/pkg/domain"
)

// Message is one server-sent event.
type Message struct {
	Event string
	Data  string
}

// StreamManager fans engine events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan Message]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan Message]struct{}),
	}
}

// Subscribe registers a listener. The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe() (<-chan Message, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Message, 16)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast never blocks: slow subscribers miss messages.
func (sm *StreamManager) Broadcast(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("SSE: event encode failed", "event", event, "error", err)
		return
	}
	msg := Message{Event: event, Data: string(data)}

	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			slog.Warn("SSE: client buffer full, dropping message", "event", event)
		}
	}
}

// Hooks broadcasts engine events. Register them with runtime.WithLifecycleHooks.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseChange: func(_ context.Context, e *domain.PhaseEvent) {
			sm.Broadcast("phase", e)
		},
		OnCandidateLine: func(_ context.Context, e *domain.LineEvent) {
			sm.Broadcast("line", e)
		},
		OnReply: func(_ context.Context, e *domain.ReplyEvent) {
			sm.Broadcast("reply", e)
		},
		OnFinish: func(_ context.Context, e *domain.FinishEvent) {
			sm.Broadcast("finish", e)
		},
	}
}
