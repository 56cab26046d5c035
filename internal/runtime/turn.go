package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/rehearse/internal/matcher"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/aretw0/rehearse/pkg/ports"
)

var errEmptyReply = errors.New("reply provider returned no text")

// SelectOption answers with the suggested reply at index.
// It returns false unless the engine is awaiting a reply and index is in range.
func (e *Engine) SelectOption(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	node, ok := e.replyableLocked()
	if !ok || index < 0 || index >= len(node.Options) {
		return false
	}
	opt := node.Options[index]
	e.resolveLocked(node, opt, opt.Text, false)
	return true
}

// SubmitText answers with free text, matched onto the closest suggested reply.
// The transcript keeps the text as typed. Blank or oversized input is refused.
func (e *Engine) SubmitText(text string) bool {
	clean, ok := e.clean(text)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitLocked(clean)
}

// SetDraft replaces the pending free-text reply.
func (e *Engine) SetDraft(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.conv.Draft = text
	e.conv.Interim = ""
}

// SubmitDraft submits the pending free-text reply, including recognized speech.
func (e *Engine) SubmitDraft() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	clean, ok := e.clean(e.conv.Draft)
	if !ok {
		return false
	}
	return e.submitLocked(clean)
}

func (e *Engine) clean(text string) (string, bool) {
	clean, err := SanitizeInput(text, e.maxInputSize)
	if err != nil {
		e.logger.Warn("free text rejected", "error", err)
		return "", false
	}
	clean = strings.TrimSpace(clean)
	return clean, clean != ""
}

func (e *Engine) submitLocked(text string) bool {
	node, ok := e.replyableLocked()
	if !ok {
		return false
	}
	idx := matcher.Match(text, node.Options)
	if idx < 0 {
		return false
	}
	e.resolveLocked(node, node.Options[idx], text, true)
	return true
}

func (e *Engine) replyableLocked() (domain.DialogNode, bool) {
	if e.scenario == nil || e.conv.Phase != domain.PhaseAwaitingReply {
		return domain.DialogNode{}, false
	}
	return e.scenario.Node(e.conv.CurrentNodeID)
}

// resolveLocked records a reply and schedules what follows it.
func (e *Engine) resolveLocked(node domain.DialogNode, opt domain.DialogOption, displayed string, freeText bool) {
	e.conv.Transcript = append(e.conv.Transcript, domain.TranscriptEntry{
		Speaker:     domain.SpeakerUser,
		Name:        domain.UserName,
		NodeID:      node.ID,
		Text:        displayed,
		Quality:     opt.Quality,
		CoachingTip: opt.CoachingTip,
	})
	e.conv.TotalScore += opt.Score
	e.conv.TurnCount++
	e.conv.CategoryScore[opt.Category] += opt.Score
	e.conv.CategoryCount[opt.Category]++
	e.conv.LastCoaching = &domain.Coaching{Quality: opt.Quality, Tip: opt.CoachingTip}
	e.conv.Draft, e.conv.Interim = "", ""

	if e.conv.Listening {
		e.listener.Stop()
		e.conv.Listening = false
	}
	if e.speech != nil {
		e.speech.Cancel()
	}

	e.logger.Debug("reply accepted",
		"conversation_id", e.conv.ID,
		"node", node.ID,
		"quality", opt.Quality,
		"category", opt.Category,
		"free_text", freeText,
	)
	if e.hooks.OnReply != nil {
		e.hooks.OnReply(e.ctx, &domain.ReplyEvent{
			EventBase: e.eventBase(),
			NodeID:    node.ID,
			Option:    opt,
			Text:      displayed,
			FreeText:  freeText,
		})
	}

	e.setPhaseLocked(domain.PhaseThinking)
	gen := e.gen

	if opt.Terminal() {
		e.conv.CurrentNodeID = ""
		e.schedule(gen, e.pacing.Finish, e.finishLocked)
		return
	}

	next := *opt.NextID
	delay := e.thinkDelayLocked()

	if e.provider == nil {
		e.schedule(gen, delay, func() {
			e.presentLocked(next, "", false)
		})
		return
	}

	ctx := e.ctx
	req := ports.ReplyRequest{
		PersonaName:         e.scenario.Persona.Name,
		PersonaRole:         e.scenario.Persona.Role,
		ScenarioTitle:       e.scenario.Title,
		ScenarioDescription: e.scenario.Description,
		Utterance:           displayed,
	}
	e.schedule(gen, delay, func() {
		go e.fetchReply(ctx, gen, req, next)
	})
}

func (e *Engine) thinkDelayLocked() time.Duration {
	p := e.pacing
	d := p.ThinkBase
	if p.ThinkJitter > 0 {
		d += time.Duration(e.rng.Int64N(int64(p.ThinkJitter)))
	}
	if e.conv.TurnCount >= p.PauseAfterTurns && e.rng.Float64() < p.PauseChance {
		d += p.PauseExtra
	}
	return d
}

// fetchReply asks the provider for the next line and presents it, or the
// scripted line on any failure. Results from an older generation are dropped.
func (e *Engine) fetchReply(ctx context.Context, gen uint64, req ports.ReplyRequest, next string) {
	callCtx, cancel := context.WithTimeout(ctx, e.providerTimeout)
	defer cancel()

	text, err := e.provider.Reply(callCtx, req)
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = errEmptyReply
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen {
		e.logger.Debug("dropping stale provider reply", "node", next)
		return
	}
	if err != nil {
		e.logger.Warn("reply provider failed, using scripted line",
			"conversation_id", e.conv.ID,
			"node", next,
			"error", err,
		)
		if e.hooks.OnFallback != nil {
			e.hooks.OnFallback(e.ctx, &domain.FallbackEvent{EventBase: e.eventBase(), NodeID: next, Err: err})
		}
		e.presentLocked(next, "", false)
		return
	}
	e.presentLocked(next, text, true)
}

// presentLocked makes nodeID current, transcribes its line (or override) and speaks it.
func (e *Engine) presentLocked(nodeID, override string, dynamic bool) {
	node, ok := e.scenario.Node(nodeID)
	if !ok {
		// Validation at load time rules this out.
		panic(fmt.Sprintf("runtime: scenario %q has no node %q", e.scenario.ID, nodeID))
	}

	text := node.Message
	if override != "" {
		text = override
	}

	e.conv.CurrentNodeID = nodeID
	e.conv.Transcript = append(e.conv.Transcript, domain.TranscriptEntry{
		Speaker: domain.SpeakerPersona,
		Name:    e.scenario.Persona.Name,
		NodeID:  nodeID,
		Text:    text,
		Dynamic: dynamic,
	})
	e.setPhaseLocked(domain.PhaseCandidateSpeaking)

	if e.hooks.OnCandidateLine != nil {
		e.hooks.OnCandidateLine(e.ctx, &domain.LineEvent{EventBase: e.eventBase(), NodeID: nodeID, Text: text, Dynamic: dynamic})
	}

	e.speakLocked(text)
}

func (e *Engine) speakLocked(text string) {
	if e.muted || e.speech == nil || !e.speech.Available() {
		e.speechDoneLocked()
		return
	}

	spoken := text
	if e.humanize {
		spoken = e.humanizer.Humanize(text)
	}

	e.utterance++
	gen, seq := e.gen, e.utterance
	done := func() { go e.onSpeechDone(gen, seq) }

	err := e.speech.Speak(e.ctx, ports.Utterance{
		Text:    spoken,
		Speaker: e.scenario.Persona.Name,
		Voice:   e.scenario.Persona.Voice,
		Muted:   e.muted,
	}, ports.SpeechCallbacks{
		OnEnd: done,
		OnError: func(err error) {
			e.logger.Warn("speech playback failed", "error", err)
			done()
		},
	})
	if err != nil {
		e.logger.Warn("speech unavailable, skipping playback", "error", err)
		e.speechDoneLocked()
	}
}

func (e *Engine) onSpeechDone(gen, seq uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen || seq != e.utterance || e.conv.Phase != domain.PhaseCandidateSpeaking {
		return
	}
	e.speechDoneLocked()
}

// speechDoneLocked moves past a spoken line. A node without replies ends the conversation.
func (e *Engine) speechDoneLocked() {
	if e.conv.CurrentNodeID == "" {
		return
	}
	node, ok := e.scenario.Node(e.conv.CurrentNodeID)
	if ok && node.Terminal() {
		e.finishLocked()
		return
	}
	e.setPhaseLocked(domain.PhaseAwaitingReply)
}
