package humanize_test

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	"github.com/aretw0/rehearse/internal/humanize"
	"github.com/aretw0/rehearse/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const line = "We reduced deployment time by 60%. It was hard but worth it, the team agreed! Would I do it again? Absolutely, because it paid off."

func seeded(seed uint64, opts ...humanize.Option) *humanize.Humanizer {
	return humanize.New(append([]humanize.Option{humanize.WithRand(rand.New(rand.NewPCG(seed, seed)))}, opts...)...)
}

var fillerPrefix = regexp.MustCompile(`(?i)^(um|uh|well|so|you know), `)

// strip undoes every transform except letter case.
func strip(s string) string {
	sentences := humanize.SplitSentences(s)
	for i, sentence := range sentences {
		sentence = fillerPrefix.ReplaceAllString(sentence, "")
		sentence = strings.ReplaceAll(sentence, ",", "")
		sentence = strings.ReplaceAll(sentence, "…", "—")
		sentences[i] = strings.ToLower(sentence)
	}
	return strings.Join(sentences, " ")
}

func TestSplitSentences(t *testing.T) {
	assert.Equal(t, []string{"One.", "Two!", "Three?", "Four"}, humanize.SplitSentences("One. Two!  Three?\nFour"))
	assert.Equal(t, []string{"3.5 is fine."}, humanize.SplitSentences("3.5 is fine."))
	assert.Equal(t, []string{""}, humanize.SplitSentences(""))
}

func TestHumanize_NoFillers(t *testing.T) {
	h := seeded(1, humanize.WithFillerChance(0))

	got := h.Humanize(line)
	assert.Equal(t, "We reduced deployment time by 60%. It was hard, but worth it, the team agreed! Would I do it again? Absolutely, because it paid off.", got)
}

func TestHumanize_Dash(t *testing.T) {
	h := seeded(1, humanize.WithFillerChance(0))
	assert.Equal(t, "Well … maybe…not", h.Humanize("Well — maybe—not"))
	assert.Len(t, humanize.SplitSentences(h.Humanize("Sold. Fully bought in — two of them presented.")), 2)
}

func TestHumanize_ConjunctionCaseInsensitive(t *testing.T) {
	h := seeded(1, humanize.WithFillerChance(0))
	assert.Equal(t, "Fine, HOWEVER late", h.Humanize("Fine   HOWEVER late"))
	assert.Equal(t, "Butter is not a conjunction", h.Humanize("Butter is not a conjunction"))
	assert.Equal(t, "I like butter", h.Humanize("I like butter"), "whole words only")
}

func TestHumanize_AlwaysFiller(t *testing.T) {
	h := seeded(7, humanize.WithFillerChance(1))

	got := humanize.SplitSentences(h.Humanize(line))
	require.Len(t, got, 4)
	assert.Equal(t, "We reduced deployment time by 60%.", got[0], "first sentence never gets a filler")
	for _, s := range got[1:] {
		assert.Regexp(t, `^(Um|Uh|Well|So|You know), [a-z]`, s)
	}
}

func TestHumanize_Properties(t *testing.T) {
	inputs := []string{
		line,
		"Hi! I'm Alex Chen, and I'm excited to interview. Ready to get started whenever you are!",
		"Oh, well... I have 8 years of experience. I believe my track record speaks for itself.",
		"Single sentence without punctuation",
		"By launch the team was fully bought in — two of them even presented the results. Worth it.",
		"Dash at the end —",
	}

	for _, in := range inputs {
		a := seeded(1).Humanize(in)
		b := seeded(99).Humanize(in)

		assert.Len(t, humanize.SplitSentences(a), len(humanize.SplitSentences(in)), "sentence count preserved")
		assert.Equal(t, strip(a), strip(b), "outputs differ only by humanizing artifacts")
		assert.Equal(t, strip(in), strip(a))
	}
}

func TestHumanize_BuiltinLinesKeepSentenceCount(t *testing.T) {
	h := seeded(3, humanize.WithFillerChance(1))
	for _, s := range catalog.Builtin() {
		for _, n := range s.Nodes() {
			in := n.Message
			out := h.Humanize(in)
			assert.Len(t, humanize.SplitSentences(out), len(humanize.SplitSentences(in)), "%s/%s: %q", s.ID, n.ID, out)
		}
	}
}

func TestHumanize_PackageLevel(t *testing.T) {
	out := humanize.Humanize("Plain.")
	assert.Equal(t, "Plain.", out)
}
