package matching

import (
	"sort"
	"strings"

	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// narrativeDamping scales scores earned by phrases mined from the raw
// narrative, which are noisier than the extractor's interest lists.
const narrativeDamping = 0.5

// ThresholdFromPercent converts the externally stored 0-100 confidence
// setting to the internal 0-1 scale, clamping out-of-range values.
func ThresholdFromPercent(pct int) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 1
	}
	return float64(pct) / 100
}

// Matcher scores interest phrases against one immutable catalog snapshot.
// A matcher is built per request with the snapshot and threshold captured at
// request start, so an out-of-band catalog refresh never shifts results
// mid-flight.
type Matcher struct {
	snapshot  *Snapshot
	sim       Similarity
	threshold float64
}

// NewMatcher builds a matcher over the snapshot with the given confidence
// threshold (0-1). A nil similarity selects the lexical default.
func NewMatcher(snapshot *Snapshot, threshold float64, sim Similarity) *Matcher {
	if sim == nil {
		sim = LexicalSimilarity{}
	}
	return &Matcher{snapshot: snapshot, sim: sim, threshold: threshold}
}

// Match scores every interest phrase across the three lists (plus optional
// phrases mined from the narrative) against every catalog entry. Matches
// below the threshold are dropped; multiple phrases hitting the same tag keep
// only the highest score; output is sorted score descending, tag name
// ascending.
func (m *Matcher) Match(professional, personal, philanthropic []string, narrative string) []types.TagMatch {
	entries := m.snapshot.Entries()
	if len(entries) == 0 {
		return []types.TagMatch{}
	}

	type candidate struct {
		phrase  string
		damping float64
	}

	var candidates []candidate
	for _, list := range [][]string{professional, personal, philanthropic} {
		for _, phrase := range list {
			if strings.TrimSpace(phrase) != "" {
				candidates = append(candidates, candidate{phrase: phrase, damping: 1})
			}
		}
	}
	for _, phrase := range narrativePhrases(narrative) {
		candidates = append(candidates, candidate{phrase: phrase, damping: narrativeDamping})
	}

	best := make(map[int64]types.TagMatch)
	for _, entry := range entries {
		for _, c := range candidates {
			score := m.sim.Score(c.phrase, entry.Name, entry.Category) * c.damping
			if score < m.threshold {
				continue
			}
			prev, seen := best[entry.ID]
			if !seen || score > prev.Score || (score == prev.Score && c.phrase < prev.MatchedInterest) {
				best[entry.ID] = types.TagMatch{Tag: entry, Score: score, MatchedInterest: c.phrase}
			}
		}
	}

	matches := make([]types.TagMatch, 0, len(best))
	for _, match := range best {
		matches = append(matches, match)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Tag.Name < matches[j].Tag.Name
	})

	return matches
}

// narrativePhrases mines unigrams and bigrams from the raw narrative as a
// secondary matching signal.
func narrativePhrases(narrative string) []string {
	tokens := tokenize(normalize(narrative))
	if len(tokens) == 0 {
		return nil
	}

	phrases := make([]string, 0, 2*len(tokens))
	for i, tok := range tokens {
		phrases = append(phrases, tok)
		if i+1 < len(tokens) {
			phrases = append(phrases, tok+" "+tokens[i+1])
		}
	}
	return phrases
}
