// Package quality scores a contact report's completeness via one bounded
// language-model call. Failures are reported to the caller; the orchestrator,
// not this package, decides what fallback to substitute.
package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/daniel/fieldnote-analyzer/internal/llm"
	"github.com/daniel/fieldnote-analyzer/internal/prompts"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// DefaultTimeout bounds the assessment call. It is part of the enrichment
// fan-out budget, so it is tighter than the extraction timeout.
const DefaultTimeout = 8 * time.Second

// assessResponse is the JSON shape the model is asked to return.
type assessResponse struct {
	Score           float64  `json:"score"`
	Explanation     string   `json:"explanation"`
	Recommendations []string `json:"recommendations"`
}

// Assessor runs quality scoring against the language-model service.
type Assessor struct {
	client  llm.Client
	timeout time.Duration
}

// NewAssessor creates an assessor with the default timeout.
func NewAssessor(client llm.Client) *Assessor {
	return &Assessor{client: client, timeout: DefaultTimeout}
}

// WithTimeout overrides the per-call timeout.
func (a *Assessor) WithTimeout(d time.Duration) *Assessor {
	a.timeout = d
	return a
}

// Assess scores the narrative against its extracted record. The score is
// clamped to 0-100.
func (a *Assessor) Assess(ctx context.Context, narrative string, record *types.ExtractedRecord) (*types.QualityAssessment, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := buildAssessPrompt(narrative, record)

	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("quality assessment call failed: %w", err)
	}

	raw = llm.CleanJSONBlock(raw)
	var resp assessResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse quality response: %w (content: %s)", err, raw)
	}

	if resp.Score < 0 {
		resp.Score = 0
	}
	if resp.Score > 100 {
		resp.Score = 100
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []string{}
	}

	return &types.QualityAssessment{
		Score:           resp.Score,
		Explanation:     resp.Explanation,
		Recommendations: resp.Recommendations,
	}, nil
}

func buildAssessPrompt(narrative string, record *types.ExtractedRecord) string {
	template := prompts.MustGet("quality.json", "score-contact-report")
	return prompts.Format(template, map[string]string{
		"Narrative":               narrative,
		"Summary":                 record.Summary,
		"Category":                record.Category,
		"Subcategory":             record.Subcategory,
		"ProfessionalInterests":   joinOrNone(record.ProfessionalInterests),
		"PersonalInterests":       joinOrNone(record.PersonalInterests),
		"PhilanthropicPriorities": joinOrNone(record.PhilanthropicPriorities),
	})
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
