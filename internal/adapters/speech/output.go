// Package speech provides terminal stand-ins for speech synthesis and recognition.
package speech

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/aretw0/rehearse/pkg/ports"
)

// DefaultWordsPerSecond approximates conversational speech at rate 1.
const DefaultWordsPerSecond = 2.5

// Console "speaks" by writing each utterance to a writer and holding the
// line for as long as reading it aloud would take.
type Console struct {
	w              io.Writer
	wordsPerSecond float64
	format         func(ports.Utterance) string

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

var _ ports.SpeechOutput = (*Console)(nil)

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithWordsPerSecond sets the simulated speaking pace. Zero or less ends utterances immediately.
func WithWordsPerSecond(wps float64) ConsoleOption {
	return func(c *Console) {
		c.wordsPerSecond = wps
	}
}

// WithFormat controls how an utterance is written.
func WithFormat(f func(ports.Utterance) string) ConsoleOption {
	return func(c *Console) {
		c.format = f
	}
}

// NewConsole writes utterances to w.
func NewConsole(w io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		w:              w,
		wordsPerSecond: DefaultWordsPerSecond,
		format: func(u ports.Utterance) string {
			return fmt.Sprintf("%s: %s", u.Speaker, u.Text)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available implements ports.SpeechOutput.
func (c *Console) Available() bool { return true }

// Speak writes the utterance and reports its end after the simulated duration.
func (c *Console) Speak(ctx context.Context, u ports.Utterance, cb ports.SpeechCallbacks) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.seq++
	seq := c.seq

	if !u.Muted {
		if _, err := fmt.Fprintln(c.w, c.format(u)); err != nil {
			return fmt.Errorf("write utterance: %w", err)
		}
	}
	if cb.OnStart != nil {
		go cb.OnStart()
	}

	c.timer = time.AfterFunc(c.Duration(u), func() {
		c.mu.Lock()
		current := seq == c.seq && ctx.Err() == nil
		if current {
			c.timer = nil
		}
		c.mu.Unlock()

		if current && cb.OnEnd != nil {
			cb.OnEnd()
		}
	})
	return nil
}

// Cancel stops the current utterance. Its OnEnd is not delivered.
func (c *Console) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.seq++
}

func (c *Console) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Duration is how long reading u aloud takes at its voice rate.
func (c *Console) Duration(u ports.Utterance) time.Duration {
	if c.wordsPerSecond <= 0 {
		return 0
	}
	rate := u.Voice.Rate
	if rate <= 0 {
		rate = domain.DefaultVoice.Rate
	}
	words := float64(len(strings.Fields(u.Text)))
	return time.Duration(words / (c.wordsPerSecond * rate) * float64(time.Second))
}

// Silent stands in when no audio device exists.
type Silent struct{}

var _ ports.SpeechOutput = Silent{}

// Available implements ports.SpeechOutput.
func (Silent) Available() bool { return false }

// Speak implements ports.SpeechOutput.
func (Silent) Speak(context.Context, ports.Utterance, ports.SpeechCallbacks) error {
	return domain.ErrSpeechUnavailable
}

// Cancel implements ports.SpeechOutput.
func (Silent) Cancel() {}
