package runner

import (
	"io"
	"log/slog"
	"time"
)

// DefaultPollInterval is how often the Runner samples the engine for changes.
const DefaultPollInterval = 50 * time.Millisecond

// ContentRenderer transforms markdown before it is written, e.g. to ANSI.
type ContentRenderer func(string) (string, error)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithIO sets the terminal streams. Defaults are Stdin and Stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		r.input = in
		r.output = out
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRenderer configures the report renderer (e.g. glamour).
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.renderer = renderer
	}
}

// WithEcho prints candidate lines. Disable it when a speech output already writes them;
// lines are still printed while the engine is muted.
func WithEcho(echo bool) Option {
	return func(r *Runner) {
		r.echo = echo
	}
}

// WithHeadless suppresses the banner and decorations.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.headless = headless
	}
}

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.poll = d
	}
}
