package quality

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/fieldnote-analyzer/internal/llm"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

type mockClient struct {
	response string
	err      error
	prompt   string
	delay    time.Duration
}

func (m *mockClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	m.prompt = prompt
	return m.response, m.err
}

func (m *mockClient) GenerateJSON(ctx context.Context, prompt string, _ llm.ModelTier) (string, error) {
	m.prompt = prompt
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.response, m.err
}

func (m *mockClient) Close() error { return nil }

func sampleRecord() *types.ExtractedRecord {
	return &types.ExtractedRecord{
		Summary:                 "Visited donor about scholarships.",
		Category:                "Visit",
		PersonalInterests:       []string{"hockey"},
		ProfessionalInterests:   []string{},
		PhilanthropicPriorities: []string{"athletic scholarships"},
	}
}

func TestAssess_Success(t *testing.T) {
	mock := &mockClient{response: `{"score": 82, "explanation": "thorough", "recommendations": ["note a next step"]}`}
	assessor := NewAssessor(mock)

	result, err := assessor.Assess(context.Background(), "long narrative", sampleRecord())
	require.NoError(t, err)

	assert.InDelta(t, 82.0, result.Score, 0.001)
	assert.Equal(t, "thorough", result.Explanation)
	assert.Equal(t, []string{"note a next step"}, result.Recommendations)
}

func TestAssess_PromptCarriesRecordAndNarrative(t *testing.T) {
	mock := &mockClient{response: `{"score": 50, "recommendations": []}`}
	assessor := NewAssessor(mock)

	_, err := assessor.Assess(context.Background(), "the narrative text", sampleRecord())
	require.NoError(t, err)

	assert.Contains(t, mock.prompt, "the narrative text")
	assert.Contains(t, mock.prompt, "Visited donor about scholarships.")
	assert.Contains(t, mock.prompt, "hockey")
	assert.Contains(t, mock.prompt, "none") // empty professional interests
}

func TestAssess_ScoreClamped(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
	}{
		{"above range", `{"score": 140, "recommendations": []}`, 100},
		{"below range", `{"score": -5, "recommendations": []}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessor := NewAssessor(&mockClient{response: tt.response})
			result, err := assessor.Assess(context.Background(), "n", sampleRecord())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, result.Score, 0.001)
		})
	}
}

func TestAssess_APIErrorPropagates(t *testing.T) {
	assessor := NewAssessor(&mockClient{err: errors.New("overloaded")})

	_, err := assessor.Assess(context.Background(), "n", sampleRecord())
	assert.ErrorContains(t, err, "overloaded")
}

func TestAssess_MalformedResponseFails(t *testing.T) {
	assessor := NewAssessor(&mockClient{response: "not json"})

	_, err := assessor.Assess(context.Background(), "n", sampleRecord())
	assert.ErrorContains(t, err, "failed to parse quality response")
}

func TestAssess_TimeoutFails(t *testing.T) {
	mock := &mockClient{response: `{"score": 80, "recommendations": []}`, delay: 200 * time.Millisecond}
	assessor := NewAssessor(mock).WithTimeout(20 * time.Millisecond)

	_, err := assessor.Assess(context.Background(), "n", sampleRecord())
	assert.Error(t, err)
}

func TestAssess_NilRecommendationsNormalized(t *testing.T) {
	assessor := NewAssessor(&mockClient{response: `{"score": 70}`})

	result, err := assessor.Assess(context.Background(), "n", sampleRecord())
	require.NoError(t, err)
	assert.NotNil(t, result.Recommendations)
}
