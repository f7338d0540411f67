package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// mockTranscriber records whether it was called and returns canned output.
type mockTranscriber struct {
	called bool
	text   string
	err    error
}

func (m *mockTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	m.called = true
	return m.text, m.err
}

func TestResolve_TypedTextSkipsRemoteCall(t *testing.T) {
	mock := &mockTranscriber{text: "should not be used"}
	resolver := NewResolver(mock)

	text, err := resolver.Resolve(context.Background(), types.NarrativeInput{
		RawText: "Hockey scholarship donation",
		Audio:   []byte("audio-that-must-be-ignored"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Hockey scholarship donation", text)
	assert.False(t, mock.called, "speech service must not be invoked when typed text is present")
}

func TestResolve_WhitespaceTextFallsThroughToAudio(t *testing.T) {
	mock := &mockTranscriber{text: "Met with donor about engineering fund"}
	resolver := NewResolver(mock)

	text, err := resolver.Resolve(context.Background(), types.NarrativeInput{
		RawText: "   \n",
		Audio:   []byte("wav"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Met with donor about engineering fund", text)
	assert.True(t, mock.called)
}

func TestResolve_NoInput(t *testing.T) {
	mock := &mockTranscriber{}
	resolver := NewResolver(mock)

	_, err := resolver.Resolve(context.Background(), types.NarrativeInput{})

	var noInput *NoInputError
	require.ErrorAs(t, err, &noInput)
	assert.False(t, mock.called, "no remote call may precede the input check")
}

func TestResolve_TranscriptionFailure(t *testing.T) {
	mock := &mockTranscriber{err: errors.New("service down")}
	resolver := NewResolver(mock)

	_, err := resolver.Resolve(context.Background(), types.NarrativeInput{Audio: []byte("wav")})

	var trErr *TranscriptionError
	require.ErrorAs(t, err, &trErr)
	assert.Contains(t, err.Error(), "service down")
}

func TestResolve_EmptyTranscriptIsUnavailable(t *testing.T) {
	mock := &mockTranscriber{text: "  "}
	resolver := NewResolver(mock)

	_, err := resolver.Resolve(context.Background(), types.NarrativeInput{Audio: []byte("wav")})

	var trErr *TranscriptionError
	assert.ErrorAs(t, err, &trErr)
}
