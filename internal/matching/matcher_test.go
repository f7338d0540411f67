package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/fieldnote-analyzer/internal/types"
)

func testSnapshot() *Snapshot {
	return NewSnapshot([]types.TagCatalogEntry{
		{ID: 1, Name: "Hockey", Category: "Athletics"},
		{ID: 2, Name: "Engineering", Category: "Academics"},
		{ID: 3, Name: "Youth Hockey", Category: "Athletics"},
		{ID: 4, Name: "Performing Arts", Category: "Arts"},
	})
}

func TestThresholdFromPercent(t *testing.T) {
	assert.InDelta(t, 0.25, ThresholdFromPercent(25), 0.0001)
	assert.InDelta(t, 0.0, ThresholdFromPercent(-10), 0.0001)
	assert.InDelta(t, 1.0, ThresholdFromPercent(250), 0.0001)
}

func TestMatch_HockeyScholarshipScenario(t *testing.T) {
	// Threshold 0.25 retains the Hockey tag and drops Engineering.
	m := NewMatcher(testSnapshot(), 0.25, nil)

	matches := m.Match(nil, []string{"Hockey scholarship donation"}, nil, "")

	ids := make([]int64, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match.Tag.ID)
	}
	assert.Contains(t, ids, int64(1))
	assert.NotContains(t, ids, int64(2))
}

func TestMatch_HighThresholdSuppressesPartialMatches(t *testing.T) {
	m := NewMatcher(testSnapshot(), 0.95, nil)

	matches := m.Match(nil, []string{"Hockey scholarship donation"}, nil, "")

	assert.Empty(t, matches)
}

func TestMatch_ExactNameIsPerfectScore(t *testing.T) {
	m := NewMatcher(testSnapshot(), 0.95, nil)

	matches := m.Match([]string{"Engineering"}, nil, nil, "")

	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].Tag.ID)
	assert.InDelta(t, 1.0, matches[0].Score, 0.0001)
}

func TestMatch_Deterministic(t *testing.T) {
	m := NewMatcher(testSnapshot(), 0.2, nil)

	first := m.Match([]string{"engineering mentorship"}, []string{"youth hockey", "sailing"}, []string{"arts education"}, "Met at the rink")
	for i := 0; i < 10; i++ {
		again := m.Match([]string{"engineering mentorship"}, []string{"youth hockey", "sailing"}, []string{"arts education"}, "Met at the rink")
		assert.Equal(t, first, again)
	}
}

func TestMatch_ThresholdMonotonicity(t *testing.T) {
	interests := []string{"hockey scholarship donation", "engineering mentorship", "performing arts gala"}

	var prev []types.TagMatch
	for i, threshold := range []float64{0.1, 0.3, 0.5, 0.8, 0.99} {
		m := NewMatcher(testSnapshot(), threshold, nil)
		matches := m.Match(interests, nil, nil, "")

		if i > 0 {
			assert.LessOrEqual(t, len(matches), len(prev), "raising the threshold must not grow the match set")
			// Every surviving match must exist at the looser threshold.
			for _, match := range matches {
				found := false
				for _, p := range prev {
					if p.Tag.ID == match.Tag.ID {
						found = true
						break
					}
				}
				assert.True(t, found, "tag %d appeared only at the stricter threshold", match.Tag.ID)
			}
		}
		prev = matches
	}
}

func TestMatch_DedupKeepsHighestScore(t *testing.T) {
	// Both phrases hit tag "Hockey": one exactly, one partially.
	m := NewMatcher(testSnapshot(), 0.2, nil)

	matches := m.Match([]string{"hockey"}, []string{"hockey scholarship donation"}, nil, "")

	count := 0
	for _, match := range matches {
		if match.Tag.ID == 1 {
			count++
			assert.InDelta(t, 1.0, match.Score, 0.0001, "dedup must keep the exact-match score")
			assert.Equal(t, "hockey", match.MatchedInterest)
		}
	}
	assert.Equal(t, 1, count, "exactly one match per tag id")
}

func TestMatch_SortedByScoreThenName(t *testing.T) {
	m := NewMatcher(testSnapshot(), 0.1, nil)

	matches := m.Match([]string{"hockey", "engineering"}, nil, nil, "")

	require.NotEmpty(t, matches)
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Score == matches[i].Score {
			assert.LessOrEqual(t, matches[i-1].Tag.Name, matches[i].Tag.Name)
		} else {
			assert.Greater(t, matches[i-1].Score, matches[i].Score)
		}
	}
}

func TestMatch_EmptyCatalog(t *testing.T) {
	m := NewMatcher(NewSnapshot(nil), 0.1, nil)

	matches := m.Match([]string{"hockey"}, nil, nil, "")

	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestMatch_NarrativeIsDampedSecondarySignal(t *testing.T) {
	// "hockey" appears only in the narrative. The exact-match score of 1.0 is
	// damped to 0.5, so it survives a 0.4 threshold but not 0.6.
	loose := NewMatcher(testSnapshot(), 0.4, nil)
	matches := loose.Match(nil, nil, nil, "We talked about hockey at length")
	found := false
	for _, match := range matches {
		if match.Tag.ID == 1 {
			found = true
			assert.InDelta(t, 0.5, match.Score, 0.0001)
		}
	}
	assert.True(t, found)

	strict := NewMatcher(testSnapshot(), 0.6, nil)
	assert.Empty(t, strict.Match(nil, nil, nil, "We talked about hockey at length"))
}

func TestMatch_BlankInterestsIgnored(t *testing.T) {
	m := NewMatcher(testSnapshot(), 0.1, nil)

	matches := m.Match([]string{"", "  "}, nil, nil, "")

	assert.Empty(t, matches)
}
