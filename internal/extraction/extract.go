// Package extraction converts narrative text into a structured contact
// record via one bounded language-model call.
package extraction

import (
	"context"
	"encoding/json"
	"time"

	"github.com/daniel/fieldnote-analyzer/internal/llm"
	"github.com/daniel/fieldnote-analyzer/internal/logging"
	"github.com/daniel/fieldnote-analyzer/internal/prompts"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// DefaultTimeout bounds the extraction call. Everything downstream depends on
// this stage, so the budget is the largest of the per-stage timeouts.
const DefaultTimeout = 15 * time.Second

// Extractor runs structured extraction against the language-model service.
type Extractor struct {
	client  llm.Client
	timeout time.Duration
}

// NewExtractor creates an extractor with the default timeout.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client, timeout: DefaultTimeout}
}

// WithTimeout overrides the per-call timeout. Used by tests and callers with
// tighter budgets.
func (e *Extractor) WithTimeout(d time.Duration) *Extractor {
	e.timeout = d
	return e
}

// Extract sends the narrative to the model and parses the structured record.
// The response is validated against a JSON Schema before unmarshalling;
// any malformed response is a *ParseError, any transport or deadline problem
// an *APICallError. Callers must surface these; extraction has no fallback.
func (e *Extractor) Extract(ctx context.Context, narrative string) (*types.ExtractedRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	template := prompts.MustGet("extraction.json", "extract-contact-report")
	prompt := prompts.Format(template, map[string]string{
		"Narrative": narrative,
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: "extraction call failed", Cause: err}
	}

	raw = llm.CleanJSONBlock(raw)
	if err := validateRecordJSON(raw); err != nil {
		logging.New("extraction").WithError(err).Warn("model returned unusable record")
		return nil, err
	}

	var record types.ExtractedRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, &ParseError{Message: "failed to decode record", Cause: err}
	}

	// Schema allows empty arrays but not missing ones; normalize nils anyway
	// so downstream code never branches on nil.
	if record.ProfessionalInterests == nil {
		record.ProfessionalInterests = []string{}
	}
	if record.PersonalInterests == nil {
		record.PersonalInterests = []string{}
	}
	if record.PhilanthropicPriorities == nil {
		record.PhilanthropicPriorities = []string{}
	}

	return &record, nil
}
