package runtime

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aretw0/rehearse/internal/humanize"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/aretw0/rehearse/pkg/ports"
)

// Pacing controls the delays of the dialog choreography.
type Pacing struct {
	// Intro is the pause between selecting a scenario and the opening line.
	Intro time.Duration
	// ThinkBase plus a uniform jitter in [0, ThinkJitter) separates a reply from the next line.
	ThinkBase   time.Duration
	ThinkJitter time.Duration
	// Once PauseAfterTurns replies were given, PauseChance adds PauseExtra to the thinking delay.
	PauseExtra      time.Duration
	PauseChance     float64
	PauseAfterTurns int
	// Finish is the pause between the closing reply and the report.
	Finish time.Duration
}

// DefaultPacing mirrors a real conversation's rhythm.
func DefaultPacing() Pacing {
	return Pacing{
		Intro:           800 * time.Millisecond,
		ThinkBase:       1500 * time.Millisecond,
		ThinkJitter:     1500 * time.Millisecond,
		PauseExtra:      4 * time.Second,
		PauseChance:     0.3,
		PauseAfterTurns: 3,
		Finish:          2 * time.Second,
	}
}

// Timer is the handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d on its own goroutine.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// DefaultProviderTimeout bounds a single reply provider call.
const DefaultProviderTimeout = 15 * time.Second

// Option configures an Engine.
type Option func(*Engine)

// WithSpeechOutput sets the synthesis collaborator. Without one, lines are only transcribed.
func WithSpeechOutput(s ports.SpeechOutput) Option {
	return func(e *Engine) {
		e.speech = s
	}
}

// WithSpeechInput sets the recognition collaborator.
func WithSpeechInput(s ports.SpeechInput) Option {
	return func(e *Engine) {
		e.listener = s
	}
}

// WithReplyProvider enables dynamic mode.
func WithReplyProvider(p ports.ReplyProvider) Option {
	return func(e *Engine) {
		e.provider = p
	}
}

// WithProviderTimeout overrides DefaultProviderTimeout.
func WithProviderTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.providerTimeout = d
	}
}

// WithPacing overrides DefaultPacing.
func WithPacing(p Pacing) Option {
	return func(e *Engine) {
		e.pacing = p
	}
}

// WithAfterFunc replaces time.AfterFunc, letting tests drive the clock.
func WithAfterFunc(f AfterFunc) Option {
	return func(e *Engine) {
		e.after = f
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithRand sets the source used for thinking delays.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithHumanizer sets the speech humanizer.
func WithHumanizer(h *humanize.Humanizer) Option {
	return func(e *Engine) {
		e.humanizer = h
	}
}

// WithHumanize toggles natural speech transforms (default on).
func WithHumanize(enabled bool) Option {
	return func(e *Engine) {
		e.humanize = enabled
	}
}

// WithMuted starts the engine muted.
func WithMuted(muted bool) Option {
	return func(e *Engine) {
		e.muted = muted
	}
}

// WithMaxInputSize limits free-text replies, in bytes.
func WithMaxInputSize(n int) Option {
	return func(e *Engine) {
		e.maxInputSize = n
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}
