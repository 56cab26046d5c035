package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/rehearse/internal/feedback"
	"github.com/aretw0/rehearse/internal/logging"
	"github.com/aretw0/rehearse/internal/presentation/tui"
	"github.com/aretw0/rehearse/internal/runtime"
	"github.com/aretw0/rehearse/pkg/domain"
)

// Runner handles the terminal loop of a practice session.
type Runner struct {
	engine   *runtime.Engine
	input    io.Reader
	output   io.Writer
	logger   *slog.Logger
	renderer ContentRenderer
	echo     bool
	headless bool
	poll     time.Duration

	pending []string
	eof     bool

	printed  int
	prompted string
	thinking int
	draft    string
	reported bool
}

// New creates a Runner over engine. Candidate lines are echoed by default.
func New(engine *runtime.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine: engine,
		input:  os.Stdin,
		output: os.Stdout,
		echo:   true,
		poll:   DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.poll <= 0 {
		r.poll = DefaultPollInterval
	}
	return r
}

// Run starts scenarioID and drives it until the user quits, the input ends
// with nothing left to wait for, or ctx is cancelled. The conversation is reset
// on return.
func (r *Runner) Run(ctx context.Context, scenarioID string) error {
	if err := r.engine.Start(ctx, scenarioID); err != nil {
		return err
	}
	defer r.engine.Reset()
	r.resetView()

	if !r.headless {
		tui.PrintBanner(r.output)
		if s := r.engine.Scenario(); s != nil {
			fmt.Fprintf(r.output, "%s %s\n%s\n", s.Icon, s.Title, tui.Dim(s.Description))
			fmt.Fprintf(r.output, "%s\n\n", tui.Dim("Type a reply, :hint for suggestions, :quit to leave."))
		}
	}

	lines := newLinePump(r.input).C()
	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()

	for {
		v := r.refresh()

		quit, err := r.drain(ctx, v.Conversation.Phase)
		if err != nil || quit {
			return err
		}
		if r.eof && len(r.pending) == 0 && settled(r.engine.View().Conversation.Phase) {
			r.refresh()
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			if in.err != nil {
				if !errors.Is(in.err, io.EOF) {
					return fmt.Errorf("read input: %w", in.err)
				}
				r.eof = true
				continue
			}
			r.pending = append(r.pending, in.text)
		case <-ticker.C:
		}
	}
}

// settled phases wait on the user rather than on the engine.
func settled(p domain.Phase) bool {
	return p == domain.PhaseAwaitingReply || p == domain.PhaseFinished || p == domain.PhaseIdle
}

// immediate commands run whatever the engine is doing.
func immediate(line string) bool {
	switch line {
	case ":quit", ":q", ":retry", ":mute", ":hint":
		return true
	}
	return false
}

// drain handles queued lines. Replies wait until the engine expects one.
func (r *Runner) drain(ctx context.Context, phase domain.Phase) (bool, error) {
	for len(r.pending) > 0 {
		line := r.pending[0]
		if !immediate(line) && !settled(phase) {
			return false, nil
		}
		r.pending = r.pending[1:]

		quit, err := r.handle(ctx, line)
		if err != nil || quit {
			return quit, err
		}
		phase = r.refresh().Conversation.Phase
	}
	return false, nil
}

func (r *Runner) handle(ctx context.Context, line string) (bool, error) {
	phase := r.engine.View().Conversation.Phase

	switch {
	case line == "":
		return false, nil
	case line == ":quit" || line == ":q":
		return true, nil
	case line == ":retry":
		if err := r.engine.Retry(ctx); err != nil {
			return false, err
		}
		r.resetView()
		fmt.Fprintln(r.output, tui.Dim("Starting over."))
		return false, nil
	case line == ":mute":
		r.engine.SetMuted(!r.engine.Muted())
		state := "on"
		if r.engine.Muted() {
			state = "off"
		}
		fmt.Fprintln(r.output, tui.Dim("Speech "+state+"."))
		return false, nil
	case line == ":hint":
		r.printOptions(r.engine.View(), true)
		return false, nil
	}

	if phase == domain.PhaseFinished {
		fmt.Fprintln(r.output, tui.Dim("The interview is over. Type :retry to practice again or :quit to leave."))
		return false, nil
	}

	switch {
	case line == ":listen":
		if err := r.engine.StartListening(); err != nil {
			fmt.Fprintf(r.output, "Cannot listen: %v\n", err)
		} else {
			fmt.Fprintln(r.output, tui.Dim("Listening..."))
		}
	case line == ":send":
		if !r.engine.SubmitDraft() {
			fmt.Fprintln(r.output, "Nothing to send.")
		}
	case strings.HasPrefix(line, ":"):
		n, err := strconv.Atoi(line[1:])
		if err != nil {
			fmt.Fprintf(r.output, "Unknown command %q.\n", line)
			return false, nil
		}
		if !r.engine.SelectOption(n - 1) {
			fmt.Fprintf(r.output, "There is no suggestion %d.\n", n)
		}
	default:
		if !r.engine.SubmitText(line) {
			r.logger.Debug("free text refused", "size", len(line))
			fmt.Fprintln(r.output, "That reply could not be used. Try again or pick a suggestion.")
		}
	}
	return false, nil
}

// refresh prints whatever changed since the last look and returns the view it used.
func (r *Runner) refresh() runtime.View {
	v := r.engine.View()
	conv := v.Conversation

	for ; r.printed < len(conv.Transcript); r.printed++ {
		e := conv.Transcript[r.printed]
		if e.Speaker == domain.SpeakerPersona {
			if r.echo || v.Muted {
				fmt.Fprintf(r.output, "%s: %s\n", e.Name, e.Text)
			}
			continue
		}
		if e.Quality != "" {
			fmt.Fprintf(r.output, "  %s %s\n", tui.QualityBadge(e.Quality), tui.Dim(e.CoachingTip))
		}
	}

	if conv.Draft != "" && conv.Draft != r.draft {
		fmt.Fprintf(r.output, "Draft: %s %s\n", conv.Draft, tui.Dim("(:send to submit)"))
	}
	r.draft = conv.Draft

	switch conv.Phase {
	case domain.PhaseAwaitingReply:
		r.printOptions(v, false)
	case domain.PhaseThinking:
		if !r.headless && r.thinking != conv.TurnCount && v.Scenario != nil && conv.CurrentNodeID != "" {
			r.thinking = conv.TurnCount
			fmt.Fprintln(r.output, tui.Dim(v.Scenario.Persona.Name+" is thinking..."))
		}
	case domain.PhaseFinished:
		if !r.reported {
			r.reported = true
			r.printReport()
		}
	}
	return v
}

// printOptions lists the suggestions once per turn, or again when forced.
func (r *Runner) printOptions(v runtime.View, force bool) {
	if len(v.Options) == 0 {
		if force {
			fmt.Fprintln(r.output, tui.Dim("No suggestions right now."))
		}
		return
	}
	key := fmt.Sprintf("%s/%d", v.Conversation.CurrentNodeID, v.Conversation.TurnCount)
	if key == r.prompted && !force {
		return
	}
	r.prompted = key

	if !r.headless {
		fmt.Fprintln(r.output, tui.Dim(fmt.Sprintf("Progress %d%%", v.Progress)))
	}
	for _, o := range v.Options {
		fmt.Fprintf(r.output, "  [%d] %s\n", o.Index+1, o.Text)
	}
}

func (r *Runner) printReport() {
	report, err := r.engine.Report()
	if err != nil {
		r.logger.Error("report unavailable", "error", err)
		return
	}

	md := feedback.RenderMarkdown(report)
	if r.renderer != nil {
		if rendered, err := r.renderer(md); err == nil {
			md = rendered
		}
	}
	fmt.Fprintln(r.output)
	fmt.Fprintln(r.output, strings.TrimSpace(md))

	if !r.headless {
		for _, c := range report.Categories {
			fmt.Fprintf(r.output, "%-24s %s\n", c.Label, tui.GradeBadge(c.Grade))
		}
		fmt.Fprintln(r.output, tui.Dim("Type :retry to practice again or :quit to leave."))
	}
}

func (r *Runner) resetView() {
	r.printed = 0
	r.prompted = ""
	r.thinking = 0
	r.draft = ""
	r.reported = false
}
