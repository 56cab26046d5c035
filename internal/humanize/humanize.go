// Package humanize makes scripted lines sound less robotic when spoken.
//
// The transforms apply to the speech channel only. Transcripts keep the
// original text.
package humanize

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

// Fillers are prepended to sentences after the first.
var Fillers = []string{"um,", "uh,", "well,", "so,", "you know,"}

// DefaultFillerChance is the probability a non-first sentence gets a filler.
const DefaultFillerChance = 0.4

var (
	sentenceBreak = regexp.MustCompile(`[.!?]\s+`)
	conjunction   = regexp.MustCompile(`(?i),?\s+(but|however|because|although)\b`)
)

// Humanizer applies filler words, pause commas and hesitation ellipses.
type Humanizer struct {
	mu     sync.Mutex
	rng    *rand.Rand
	chance float64
}

// Option configures a Humanizer.
type Option func(*Humanizer)

// WithRand sets the random source. Tests use a seeded source.
func WithRand(r *rand.Rand) Option {
	return func(h *Humanizer) {
		h.rng = r
	}
}

// WithFillerChance overrides DefaultFillerChance.
func WithFillerChance(p float64) Option {
	return func(h *Humanizer) {
		h.chance = p
	}
}

// New creates a Humanizer seeded from the clock unless WithRand is given.
func New(opts ...Option) *Humanizer {
	h := &Humanizer{chance: DefaultFillerChance}
	for _, opt := range opts {
		opt(h)
	}
	if h.rng == nil {
		seed := uint64(time.Now().UnixNano())
		h.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return h
}

var shared = New()

// Humanize transforms text with the package-level Humanizer.
func Humanize(text string) string {
	return shared.Humanize(text)
}

// Humanize returns text with speech-friendly transforms applied.
func (h *Humanizer) Humanize(text string) string {
	sentences := SplitSentences(text)

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, s := range sentences {
		if i > 0 && h.rng.Float64() < h.chance {
			filler := Fillers[h.rng.IntN(len(Fillers))]
			s = upperFirst(filler) + " " + lowerFirst(s)
		}
		s = conjunction.ReplaceAllString(s, ", ${1}")
		// A single-rune ellipsis keeps the splitter from seeing a new sentence.
		s = strings.ReplaceAll(s, "—", "…")
		sentences[i] = s
	}
	return strings.Join(sentences, " ")
}

// SplitSentences splits text after '.', '!' or '?' when followed by whitespace.
// The punctuation stays with its sentence and the whitespace is dropped.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(text, -1) {
		out = append(out, text[start:loc[0]+1])
		start = loc[1]
	}
	return append(out, text[start:])
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
