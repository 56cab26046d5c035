package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/rehearse/internal/feedback"
	"github.com/aretw0/rehearse/internal/humanize"
	"github.com/aretw0/rehearse/internal/logging"
	"github.com/aretw0/rehearse/pkg/catalog"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/aretw0/rehearse/pkg/ports"
	"github.com/google/uuid"
)

// Engine is the dialog state machine for one practice session.
//
// All public methods are safe for concurrent use. Delayed work (the intro pause,
// thinking delays, speech completion, provider calls) re-enters through the
// engine lock and carries the generation it was scheduled in; Start, Retry and
// Reset bump the generation so late results are dropped.
type Engine struct {
	mu sync.Mutex

	catalog         *catalog.Catalog
	speech          ports.SpeechOutput
	listener        ports.SpeechInput
	provider        ports.ReplyProvider
	providerTimeout time.Duration
	humanizer       *humanize.Humanizer
	pacing          Pacing
	after           AfterFunc
	now             func() time.Time
	rng             *rand.Rand
	logger          *slog.Logger
	hooks           domain.LifecycleHooks
	maxInputSize    int

	muted    bool
	humanize bool

	scenario  *domain.Scenario
	conv      domain.Conversation
	gen       uint64
	utterance uint64
	ctx       context.Context
	cancel    context.CancelFunc
	timer     Timer
}

// NewEngine creates an engine over the given catalog. A nil catalog uses the built-in scenarios.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:         cat,
		providerTimeout: DefaultProviderTimeout,
		pacing:          DefaultPacing(),
		after:           realAfterFunc,
		now:             time.Now,
		humanize:        true,
		conv:            domain.NewConversation(),
		ctx:             context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.catalog == nil {
		e.catalog = catalog.Default()
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.rng == nil {
		seed := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if e.humanizer == nil {
		e.humanizer = humanize.New()
	}
	return e
}

// Catalog returns the scenarios the engine can start.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// DynamicMode reports whether replies may come from the reply provider.
func (e *Engine) DynamicMode() bool {
	return e.provider != nil
}

// Start begins the scenario with the given id, discarding any conversation in progress.
func (e *Engine) Start(ctx context.Context, scenarioID string) error {
	s, err := e.catalog.Get(scenarioID)
	if err != nil {
		return err
	}
	return e.StartScenario(ctx, s)
}

// StartScenario begins an arbitrary scenario. It is validated first and refused if broken.
// The conversation outlives ctx; only its values are kept.
func (e *Engine) StartScenario(ctx context.Context, s *domain.Scenario) error {
	if s == nil {
		return domain.ErrInvalidScenario
	}
	if err := catalog.Validate(s); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidScenario, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.startLocked(ctx, s)
	return nil
}

// Retry restarts the current scenario from the beginning.
func (e *Engine) Retry(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scenario == nil {
		return domain.ErrNoScenario
	}
	e.startLocked(ctx, e.scenario)
	return nil
}

// Reset abandons the conversation and returns to idle.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.logger.Info("conversation reset", "conversation_id", e.conv.ID)
	e.setPhaseLocked(domain.PhaseIdle)
	e.scenario = nil
	e.conv = domain.NewConversation()
}

// Snapshot returns a deep copy of the conversation.
func (e *Engine) Snapshot() domain.Conversation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conv.Clone()
}

// Scenario returns the scenario in progress, or nil when idle.
func (e *Engine) Scenario() *domain.Scenario {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenario
}

// CurrentNode returns the node whose line was last presented.
func (e *Engine) CurrentNode() (domain.DialogNode, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scenario == nil || e.conv.CurrentNodeID == "" {
		return domain.DialogNode{}, false
	}
	return e.scenario.Node(e.conv.CurrentNodeID)
}

// Progress is the share of TotalTurns already answered, 0..100.
func (e *Engine) Progress() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progressLocked()
}

func (e *Engine) progressLocked() int {
	if e.scenario == nil || e.scenario.TotalTurns <= 0 {
		return 0
	}
	return min(100, e.conv.TurnCount*100/e.scenario.TotalTurns)
}

// Report compiles feedback for a finished conversation.
func (e *Engine) Report() (domain.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scenario == nil {
		return domain.Report{}, domain.ErrNoScenario
	}
	if e.conv.Phase != domain.PhaseFinished {
		return domain.Report{}, domain.ErrNotFinished
	}
	return feedback.Compile(e.scenario, e.conv), nil
}

// SetMuted silences speech. Muting mid-line skips the rest of it.
func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.muted = muted
	if muted && e.conv.Phase == domain.PhaseCandidateSpeaking && e.conv.CurrentNodeID != "" && e.speech != nil {
		e.speech.Cancel()
		e.speechDoneLocked()
	}
}

// Muted reports whether speech is silenced.
func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// SetHumanize toggles natural speech transforms for subsequent lines.
func (e *Engine) SetHumanize(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.humanize = enabled
}

// Humanizing reports whether natural speech transforms are on.
func (e *Engine) Humanizing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.humanize
}

func (e *Engine) startLocked(ctx context.Context, s *domain.Scenario) {
	e.stopLocked()
	e.setPhaseLocked(domain.PhaseIdle)

	e.scenario = s
	e.ctx, e.cancel = context.WithCancel(context.WithoutCancel(ctx))

	conv := domain.NewConversation()
	conv.ID = uuid.NewString()
	conv.ScenarioID = s.ID
	conv.DynamicMode = e.provider != nil
	conv.StartedAt = e.now()
	e.conv = conv

	e.logger.Info("conversation started",
		"conversation_id", conv.ID,
		"scenario", s.ID,
		"dynamic", conv.DynamicMode,
	)
	e.setPhaseLocked(domain.PhaseCandidateSpeaking)

	e.schedule(e.gen, e.pacing.Intro, func() {
		e.presentLocked(domain.StartNodeID, "", false)
	})
}

// stopLocked cancels every outstanding side effect and invalidates late callbacks.
func (e *Engine) stopLocked() {
	e.gen++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.speech != nil {
		e.speech.Cancel()
	}
	if e.listener != nil && e.conv.Listening {
		e.listener.Abort()
	}
	e.conv.Listening = false
}

// schedule runs fn under the lock after d, unless the generation moved on.
func (e *Engine) schedule(gen uint64, d time.Duration, fn func()) {
	e.timer = e.after(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		if gen != e.gen {
			return
		}
		e.timer = nil
		fn()
	})
}

func (e *Engine) setPhaseLocked(p domain.Phase) {
	if e.conv.Phase == p {
		return
	}
	from := e.conv.Phase
	e.conv.Phase = p
	e.logger.Debug("phase change", "conversation_id", e.conv.ID, "from", from, "to", p)
	if e.hooks.OnPhaseChange != nil {
		e.hooks.OnPhaseChange(e.ctx, &domain.PhaseEvent{EventBase: e.eventBase(), From: from, To: p})
	}
}

func (e *Engine) eventBase() domain.EventBase {
	return domain.EventBase{
		Timestamp:      e.now(),
		ConversationID: e.conv.ID,
		ScenarioID:     e.conv.ScenarioID,
	}
}

func (e *Engine) finishLocked() {
	e.conv.CurrentNodeID = ""
	e.conv.LastCoaching = nil
	e.conv.FinishedAt = e.now()
	e.setPhaseLocked(domain.PhaseFinished)

	score := feedback.NormalizeScore(e.conv.TotalScore, e.conv.TurnCount, e.scenario.MaxOptionScore())
	e.logger.Info("conversation finished",
		"conversation_id", e.conv.ID,
		"scenario", e.conv.ScenarioID,
		"turns", e.conv.TurnCount,
		"score", score,
	)
	if e.hooks.OnFinish != nil {
		e.hooks.OnFinish(e.ctx, &domain.FinishEvent{EventBase: e.eventBase(), Score: score, Turns: e.conv.TurnCount})
	}
}
