package analysis

import "fmt"

// Reason is the machine-readable cause of a fatal pipeline failure. Callers
// use it to decide between prompting for re-recording, manual entry, or retry.
type Reason string

const (
	// ReasonNoInput means neither narrative text nor audio was provided.
	ReasonNoInput Reason = "no_input"
	// ReasonTranscriptionUnavailable means audio was provided but could not
	// be converted to text.
	ReasonTranscriptionUnavailable Reason = "transcription_unavailable"
	// ReasonExtractionFailed means the structured extraction call failed or
	// returned an unusable record. Extraction has no fallback.
	ReasonExtractionFailed Reason = "extraction_failed"
	// ReasonPipelineTimeout means the request-scoped deadline elapsed before
	// a complete result could be assembled.
	ReasonPipelineTimeout Reason = "pipeline_timeout"
)

// PipelineError is a fatal pipeline failure. Non-fatal degradations never
// surface as errors; they are annotated on the result instead.
type PipelineError struct {
	Reason Reason
	Err    error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pipeline failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("pipeline failed (%s)", e.Reason)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
