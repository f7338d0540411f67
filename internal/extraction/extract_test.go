package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/fieldnote-analyzer/internal/llm"
)

// mockClient implements llm.Client with canned responses.
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

const validRecordJSON = `{
	"summary": "Visited donor to discuss the hockey scholarship fund.",
	"category": "Visit",
	"subcategory": "Qualification Visit",
	"professional_interests": ["engineering"],
	"personal_interests": ["hockey"],
	"philanthropic_priorities": ["athletic scholarships"],
	"prospect_name": "Jordan Miles"
}`

func TestExtract_Success(t *testing.T) {
	mock := &mockClient{response: validRecordJSON}
	extractor := NewExtractor(mock)

	record, err := extractor.Extract(context.Background(), "Met Jordan Miles to discuss hockey scholarships.")
	require.NoError(t, err)

	assert.Equal(t, "Visit", record.Category)
	assert.Equal(t, "Qualification Visit", record.Subcategory)
	assert.Equal(t, []string{"hockey"}, record.PersonalInterests)
	assert.Equal(t, "Jordan Miles", record.ProspectNameHint)
	assert.Contains(t, mock.prompt, "Met Jordan Miles to discuss hockey scholarships.")
}

func TestExtract_FencedResponseIsCleaned(t *testing.T) {
	mock := &mockClient{response: "```json\n" + validRecordJSON + "\n```"}
	extractor := NewExtractor(mock)

	record, err := extractor.Extract(context.Background(), "narrative")
	require.NoError(t, err)
	assert.Equal(t, "Visit", record.Category)
}

func TestExtract_MalformedJSONIsHardFailure(t *testing.T) {
	mock := &mockClient{response: "I could not produce JSON, sorry."}
	extractor := NewExtractor(mock)

	_, err := extractor.Extract(context.Background(), "narrative")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestExtract_SchemaViolationIsHardFailure(t *testing.T) {
	// Valid JSON, but summary is missing.
	mock := &mockClient{response: `{"category": "Visit", "professional_interests": [], "personal_interests": [], "philanthropic_priorities": []}`}
	extractor := NewExtractor(mock)

	_, err := extractor.Extract(context.Background(), "narrative")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "schema")
}

func TestExtract_APIErrorPropagates(t *testing.T) {
	mock := &mockClient{err: errors.New("quota exhausted")}
	extractor := NewExtractor(mock)

	_, err := extractor.Extract(context.Background(), "narrative")

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestExtract_TimeoutPropagates(t *testing.T) {
	mock := &mockClient{response: validRecordJSON, delay: 200 * time.Millisecond}
	extractor := NewExtractor(mock).WithTimeout(20 * time.Millisecond)

	start := time.Now()
	_, err := extractor.Extract(context.Background(), "narrative")

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestExtract_NilInterestListsNormalized(t *testing.T) {
	mock := &mockClient{response: `{
		"summary": "Short call.",
		"category": "Phone Call",
		"professional_interests": [],
		"personal_interests": [],
		"philanthropic_priorities": []
	}`}
	extractor := NewExtractor(mock)

	record, err := extractor.Extract(context.Background(), "narrative")
	require.NoError(t, err)

	assert.NotNil(t, record.ProfessionalInterests)
	assert.NotNil(t, record.PersonalInterests)
	assert.NotNil(t, record.PhilanthropicPriorities)
}
