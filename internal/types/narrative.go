// Package types defines the shared domain structures for the field note
// analysis pipeline.
package types

import "strings"

// NarrativeInput is the raw material for one analysis request: a typed
// narrative, recorded audio, or both. Typed text always wins when present.
type NarrativeInput struct {
	RawText         string  `json:"raw_text,omitempty"`
	Audio           []byte  `json:"audio,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// HasText reports whether the input carries usable typed text.
func (n NarrativeInput) HasText() bool {
	return strings.TrimSpace(n.RawText) != ""
}

// HasAudio reports whether the input carries an audio payload.
func (n NarrativeInput) HasAudio() bool {
	return len(n.Audio) > 0
}
