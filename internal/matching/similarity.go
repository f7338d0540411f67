// Package matching scores interest phrases against the affinity tag catalog.
// Everything in this package is deterministic: identical inputs always
// produce identical scores and ordering, with no clock, randomness, or remote
// calls involved.
package matching

import (
	"strings"
	"unicode"
)

// Similarity scores a candidate phrase against one catalog tag. Scores are in
// [0,1]. Implementations must be deterministic and order-independent so the
// matcher's threshold semantics hold.
type Similarity interface {
	Score(phrase, tagName, tagCategory string) float64
}

// Signal strengths for the lexical scorer. Exact name equality is a perfect
// match; full containment of the tag's tokens in the phrase ranks high but
// below a configurable near-certain threshold; everything else falls back to
// token overlap.
const (
	exactScore       = 1.0
	containmentScore = 0.8
	categoryBonus    = 0.1
)

// LexicalSimilarity is the default scorer: a weighted lexical overlap in
// the same spirit as keyword scoring elsewhere in the codebase. Any other
// monotonic similarity (embeddings included) can be swapped in behind the
// Similarity interface.
type LexicalSimilarity struct{}

// Score implements Similarity.
func (LexicalSimilarity) Score(phrase, tagName, tagCategory string) float64 {
	phraseNorm := normalize(phrase)
	tagNorm := normalize(tagName)
	if phraseNorm == "" || tagNorm == "" {
		return 0
	}

	if phraseNorm == tagNorm {
		return exactScore
	}

	phraseTokens := tokenize(phraseNorm)
	tagTokens := tokenize(tagNorm)

	score := 0.0
	if containsAll(phraseTokens, tagTokens) || containsAll(tagTokens, phraseTokens) {
		score = containmentScore
	} else {
		score = jaccard(phraseTokens, tagTokens)
	}

	// Category overlap is a weak secondary signal, never sufficient alone.
	if score > 0 && tagCategory != "" {
		if overlap(phraseTokens, tokenize(normalize(tagCategory))) > 0 {
			score += categoryBonus
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// tokenize splits on any non-letter, non-digit rune and drops empties.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsAll(haystack, needles []string) bool {
	if len(needles) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(haystack))
	for _, t := range haystack {
		set[t] = struct{}{}
	}
	for _, n := range needles {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}

func overlap(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range b {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
