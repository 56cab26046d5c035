package runner

import (
	"bufio"
	"io"
	"strings"
	"sync"
)

type inputResult struct {
	text string
	err  error
}

// linePump reads lines on its own goroutine so the Runner can keep watching the
// engine while the user types.
type linePump struct {
	reader *bufio.Reader
	lines  chan inputResult
	once   sync.Once
}

func newLinePump(r io.Reader) *linePump {
	return &linePump{
		reader: bufio.NewReader(r),
		lines:  make(chan inputResult, 16),
	}
}

// C starts the pump on first use and returns its channel. The channel is
// closed after the read error (io.EOF included) has been delivered.
func (p *linePump) C() <-chan inputResult {
	p.once.Do(func() {
		go func() {
			defer close(p.lines)
			for {
				text, err := p.reader.ReadString('\n')
				if text != "" {
					p.lines <- inputResult{text: strings.TrimSpace(text)}
				}
				if err != nil {
					p.lines <- inputResult{err: err}
					return
				}
			}
		}()
	})
	return p.lines
}
