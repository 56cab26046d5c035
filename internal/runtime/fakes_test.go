package runtime_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/rehearse/internal/runtime"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/aretw0/rehearse/pkg/ports"
)

// manualClock queues delayed work until the test fires it.
type manualClock struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) runtime.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, delay: d, fn: f}
	c.pending = append(c.pending, t)
	return t
}

// Next reports the delay of the oldest live timer.
func (c *manualClock) Next() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.pending {
		if !t.stopped {
			return t.delay, true
		}
	}
	return 0, false
}

// Advance fires every live timer queued so far and reports how many ran.
func (c *manualClock) Advance() int {
	c.mu.Lock()
	due := c.pending
	c.pending = nil
	c.mu.Unlock()

	n := 0
	for _, t := range due {
		c.mu.Lock()
		live := !t.stopped
		t.stopped = true
		c.mu.Unlock()
		if live {
			t.fn()
			n++
		}
	}
	return n
}

type fakeSpeech struct {
	mu         sync.Mutex
	available  bool
	utterances []ports.Utterance
	callbacks  []ports.SpeechCallbacks
	cancels    int
}

func (s *fakeSpeech) Available() bool { return s.available }

func (s *fakeSpeech) Speak(_ context.Context, u ports.Utterance, cb ports.SpeechCallbacks) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.utterances = append(s.utterances, u)
	s.callbacks = append(s.callbacks, cb)
	return nil
}

func (s *fakeSpeech) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
}

func (s *fakeSpeech) spoken() []ports.Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.Utterance(nil), s.utterances...)
}

// finish reports the end of the most recent utterance.
func (s *fakeSpeech) finish() {
	s.mu.Lock()
	cb := s.callbacks[len(s.callbacks)-1]
	s.mu.Unlock()
	cb.OnEnd()
}

type fakeListener struct {
	mu       sync.Mutex
	segments ports.SpeechSegments
	starts   int
	stops    int
	aborts   int
}

func (l *fakeListener) Available() bool { return true }

func (l *fakeListener) Start(_ context.Context, seg ports.SpeechSegments) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.segments = seg
	l.starts++
	return nil
}

func (l *fakeListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stops++
}

func (l *fakeListener) Abort() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.aborts++
}

func (l *fakeListener) seg() ports.SpeechSegments {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.segments
}

type providerFunc func(ctx context.Context, req ports.ReplyRequest) (string, error)

func (f providerFunc) Reply(ctx context.Context, req ports.ReplyRequest) (string, error) {
	return f(ctx, req)
}

func strPtr(s string) *string { return &s }

// twoStepScenario has one branching question followed by a closing one.
func twoStepScenario() *domain.Scenario {
	return &domain.Scenario{
		ID:          "two-step",
		Title:       "Two Step",
		Description: "A short screen",
		Persona:     domain.Persona{Name: "Dana", Role: "Engineer", Voice: domain.DefaultVoice},
		TotalTurns:  2,
		NodeOrder:   []string{"start", "end"},
		DialogTree: map[string]domain.DialogNode{
			"start": {
				ID:      "start",
				Message: "Hi, I'm Dana.",
				Options: []domain.DialogOption{
					{Text: "Tell me about your team", Score: 3, NextID: strPtr("end"), Quality: domain.QualityExcellent, CoachingTip: "Warm opener.", Category: domain.CategoryRapport},
					{Text: "Describe your deadline", Score: 1, NextID: strPtr("end"), Quality: domain.QualityPoor, CoachingTip: "Abrupt.", Category: domain.CategoryQuestioning},
				},
			},
			"end": {
				ID:      "end",
				Message: "Any questions for me?",
				Options: []domain.DialogOption{
					{Text: "Goodbye then", Score: 2, Quality: domain.QualityAdequate, CoachingTip: "Fine close.", Category: domain.CategoryStructure},
				},
			},
		},
		Feedback: domain.FeedbackRecord{Strengths: []string{"s"}, Improvements: []string{"i"}, Tips: []string{"t"}},
	}
}

func newTestEngine(clock *manualClock, opts ...runtime.Option) *runtime.Engine {
	base := []runtime.Option{
		runtime.WithAfterFunc(clock.AfterFunc),
		runtime.WithRand(rand.New(rand.NewPCG(1, 2))),
		runtime.WithHumanize(false),
	}
	return runtime.NewEngine(nil, append(base, opts...)...)
}
