package speech

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/rehearse/pkg/ports"
)

// ErrBusy is returned when a recognition session is already running.
var ErrBusy = errors.New("speech input already listening")

// LineInput recognizes speech from an external transcriber: every line read
// from r is one final segment. Lines arriving while nobody listens are kept
// for the next session.
type LineInput struct {
	r    io.Reader
	once sync.Once

	mu      sync.Mutex
	pending []string
	eof     bool
	current *session
	notify  chan struct{}
}

type session struct {
	done    chan struct{}
	aborted bool
}

var _ ports.SpeechInput = (*LineInput)(nil)

// NewLineInput reads transcripts from r. Reading starts with the first session.
func NewLineInput(r io.Reader) *LineInput {
	return &LineInput{r: r, notify: make(chan struct{}, 1)}
}

// Available implements ports.SpeechInput.
func (l *LineInput) Available() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.eof || len(l.pending) > 0
}

// Start implements ports.SpeechInput.
func (l *LineInput) Start(ctx context.Context, seg ports.SpeechSegments) error {
	l.once.Do(func() { go l.read() })

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil {
		return ErrBusy
	}
	s := &session{done: make(chan struct{})}
	l.current = s
	go l.deliver(ctx, s, seg)
	return nil
}

// Stop implements ports.SpeechInput.
func (l *LineInput) Stop() {
	l.end(false)
}

// Abort implements ports.SpeechInput.
func (l *LineInput) Abort() {
	l.end(true)
}

func (l *LineInput) end(aborted bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}
	l.current.aborted = aborted
	close(l.current.done)
	l.current = nil
}

func (l *LineInput) read() {
	sc := bufio.NewScanner(l.r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		l.mu.Lock()
		l.pending = append(l.pending, line)
		l.mu.Unlock()
		l.poke()
	}
	l.mu.Lock()
	l.eof = true
	l.mu.Unlock()
	l.poke()
}

func (l *LineInput) poke() {
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

func (l *LineInput) deliver(ctx context.Context, s *session, seg ports.SpeechSegments) {
	for {
		l.mu.Lock()
		if l.current != s {
			aborted := s.aborted
			l.mu.Unlock()
			// A wake-up consumed here may belong to the next session.
			l.poke()
			if !aborted && seg.OnEnd != nil {
				seg.OnEnd()
			}
			return
		}
		if len(l.pending) > 0 {
			line := l.pending[0]
			l.pending = l.pending[1:]
			l.mu.Unlock()
			if seg.OnInterim != nil {
				seg.OnInterim(line)
			}
			if seg.OnFinal != nil {
				seg.OnFinal(line)
			}
			continue
		}
		if l.eof {
			l.current = nil
			l.mu.Unlock()
			if seg.OnEnd != nil {
				seg.OnEnd()
			}
			return
		}
		l.mu.Unlock()

		select {
		case <-l.notify:
		case <-s.done:
		case <-ctx.Done():
			l.mu.Lock()
			if l.current == s {
				l.current = nil
				s.aborted = true
				close(s.done)
			}
			l.mu.Unlock()
		}
	}
}
