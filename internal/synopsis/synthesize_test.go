package synopsis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/fieldnote-analyzer/internal/llm"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

type mockClient struct {
	response string
	err      error
	prompt   string
}

func (m *mockClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	m.prompt = prompt
	return m.response, m.err
}

func (m *mockClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	m.prompt = prompt
	return m.response, m.err
}

func (m *mockClient) Close() error { return nil }

func sampleRecord() *types.ExtractedRecord {
	return &types.ExtractedRecord{
		Summary:                 "Visited donor to discuss the hockey scholarship fund.",
		Category:                "Visit",
		PersonalInterests:       []string{"hockey"},
		ProfessionalInterests:   []string{"engineering"},
		PhilanthropicPriorities: []string{"athletic scholarships"},
	}
}

func TestSynthesize_Success(t *testing.T) {
	mock := &mockClient{response: "Officer visited the donor and discussed hockey scholarships."}
	gen := NewGenerator(mock)

	text, degraded := gen.Synthesize(context.Background(), "full narrative", sampleRecord(), "")

	assert.False(t, degraded)
	assert.Equal(t, "Officer visited the donor and discussed hockey scholarships.", text)
	assert.Contains(t, mock.prompt, "full narrative")
	assert.Contains(t, mock.prompt, "hockey")
}

func TestSynthesize_TemplateOverride(t *testing.T) {
	mock := &mockClient{response: "custom output"}
	gen := NewGenerator(mock)

	override := "My format: {{.Summary}} // {{.Transcript}}"
	_, degraded := gen.Synthesize(context.Background(), "narr", sampleRecord(), override)

	assert.False(t, degraded)
	assert.Equal(t, "My format: Visited donor to discuss the hockey scholarship fund. // narr", mock.prompt)
}

func TestSynthesize_BlankOverrideUsesDefault(t *testing.T) {
	mock := &mockClient{response: "out"}
	gen := NewGenerator(mock)

	gen.Synthesize(context.Background(), "narr", sampleRecord(), "   ")

	assert.Contains(t, mock.prompt, "CRM record")
}

func TestSynthesize_ErrorFallsBackLocally(t *testing.T) {
	mock := &mockClient{err: errors.New("model down")}
	gen := NewGenerator(mock)

	text, degraded := gen.Synthesize(context.Background(), "the narrative", sampleRecord(), "")

	assert.True(t, degraded)
	assert.Contains(t, text, "Visited donor to discuss the hockey scholarship fund.")
	assert.Contains(t, text, "the narrative")
}

func TestSynthesize_EmptyResponseFallsBack(t *testing.T) {
	mock := &mockClient{response: "   \n"}
	gen := NewGenerator(mock)

	text, degraded := gen.Synthesize(context.Background(), "narr", sampleRecord(), "")

	assert.True(t, degraded)
	require.NotEmpty(t, text)
}

func TestFallback_NoSummary(t *testing.T) {
	text := Fallback("just the narrative", &types.ExtractedRecord{})
	assert.Equal(t, "just the narrative", text)
}
