package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/aretw0/rehearse/pkg/ports"
)

// ListeningAvailable reports whether a speech recognizer is configured and usable.
func (e *Engine) ListeningAvailable() bool {
	return e.listener != nil && e.listener.Available()
}

// StartListening begins speech recognition. Final segments are appended to the draft.
func (e *Engine) StartListening() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ListeningAvailable() {
		return domain.ErrSpeechUnavailable
	}
	if e.conv.Phase != domain.PhaseAwaitingReply {
		return fmt.Errorf("cannot listen while %s", e.conv.Phase)
	}
	if e.conv.Listening {
		return nil
	}

	gen := e.gen
	err := e.listener.Start(e.ctx, ports.SpeechSegments{
		OnInterim: func(text string) {
			e.onSegment(gen, func() { e.conv.Interim = text })
		},
		OnFinal: func(text string) {
			e.onSegment(gen, func() { e.appendDraftLocked(text) })
		},
		OnEnd: func() {
			e.onSegment(gen, e.endListeningLocked)
		},
		OnError: func(err error) {
			e.onSegment(gen, func() {
				e.logger.Warn("speech recognition failed", "conversation_id", e.conv.ID, "error", err)
				e.endListeningLocked()
			})
		},
	})
	if err != nil {
		return fmt.Errorf("start listening: %w", err)
	}
	e.conv.Listening = true
	e.conv.Interim = ""
	return nil
}

// StopListening ends recognition, keeping whatever was already recognized.
func (e *Engine) StopListening() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.conv.Listening {
		return
	}
	e.listener.Stop()
	e.conv.Listening = false
}

// Listening reports whether recognition is active.
func (e *Engine) Listening() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conv.Listening
}

func (e *Engine) onSegment(gen uint64, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen {
		return
	}
	fn()
}

func (e *Engine) appendDraftLocked(text string) {
	text = strings.TrimSpace(text)
	e.conv.Interim = ""
	if text == "" {
		return
	}
	if e.conv.Draft == "" {
		e.conv.Draft = text
		return
	}
	e.conv.Draft += " " + text
}

func (e *Engine) endListeningLocked() {
	e.conv.Listening = false
	e.conv.Interim = ""
}
