// Package matcher maps free-text interviewer input onto the scripted replies of a node.
//
// Matching is lexical: input words longer than three characters are compared
// against option words by substring containment in either direction. It is
// order-sensitive (ties go to the earlier option) and has no notion of meaning.
package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/aretw0/rehearse/pkg/domain"
)

// MinWordLen is the length an input word must exceed to take part in matching.
const MinWordLen = 3

// Match returns the index of the option that best matches text.
// Without any usable input word it returns 0. When no option shares a word
// with the input, the option with the highest intrinsic score wins.
// It returns -1 only for an empty option list.
func Match(text string, options []domain.DialogOption) int {
	if len(options) == 0 {
		return -1
	}

	words := significantWords(text)
	if len(words) == 0 {
		return 0
	}

	best, bestScore := 0, 0
	for i, opt := range options {
		score := overlap(words, strings.Fields(strings.ToLower(opt.Text)))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if bestScore > 0 {
		return best
	}

	best = 0
	for i, opt := range options {
		if opt.Score > options[best].Score {
			best = i
		}
	}
	return best
}

func significantWords(text string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(w) > MinWordLen {
			words = append(words, w)
		}
	}
	return words
}

// overlap counts input words contained in, or containing, at least one option word.
func overlap(words, optWords []string) int {
	score := 0
	for _, w := range words {
		for _, ow := range optWords {
			if strings.Contains(ow, w) || strings.Contains(w, ow) {
				score++
				break
			}
		}
	}
	return score
}
