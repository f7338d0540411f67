// Package transcript resolves a narrative input to plain text, invoking the
// speech-to-text service only when no typed text is available.
package transcript

import (
	"context"
	"strings"

	"github.com/daniel/fieldnote-analyzer/internal/logging"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// Transcriber converts recorded audio to text. *speech.Client satisfies this.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Resolver chooses between typed text and audio transcription.
type Resolver struct {
	transcriber Transcriber
}

// NewResolver creates a resolver backed by the given transcriber.
func NewResolver(transcriber Transcriber) *Resolver {
	return &Resolver{transcriber: transcriber}
}

// Resolve returns the narrative text for an input. Typed text is returned
// unchanged without any remote call; audio triggers exactly one transcription
// call. Returns *NoInputError or *TranscriptionError on the fatal paths.
func (r *Resolver) Resolve(ctx context.Context, input types.NarrativeInput) (string, error) {
	if input.HasText() {
		return input.RawText, nil
	}

	if !input.HasAudio() {
		return "", &NoInputError{}
	}

	if r.transcriber == nil {
		return "", &TranscriptionError{}
	}

	log := logging.New("transcript")
	log.WithField("audio_bytes", len(input.Audio)).Info("transcribing audio narrative")

	text, err := r.transcriber.Transcribe(ctx, input.Audio)
	if err != nil {
		log.WithError(err).Error("transcription failed")
		return "", &TranscriptionError{Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &TranscriptionError{}
	}

	return text, nil
}
