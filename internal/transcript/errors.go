package transcript

import "fmt"

// NoInputError indicates that neither typed text nor audio was supplied.
type NoInputError struct{}

func (e *NoInputError) Error() string {
	return "no narrative text or audio provided"
}

// TranscriptionError indicates the speech-to-text call failed or returned
// nothing usable. The pipeline cannot proceed without a transcript.
type TranscriptionError struct {
	Cause error
}

func (e *TranscriptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transcription unavailable: %v", e.Cause)
	}
	return "transcription unavailable"
}

func (e *TranscriptionError) Unwrap() error {
	return e.Cause
}
