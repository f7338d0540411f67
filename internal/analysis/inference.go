package analysis

import (
	"context"

	"github.com/daniel/fieldnote-analyzer/internal/extraction"
	"github.com/daniel/fieldnote-analyzer/internal/llm"
	"github.com/daniel/fieldnote-analyzer/internal/quality"
	"github.com/daniel/fieldnote-analyzer/internal/synopsis"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// Inference is the capability surface over the language-model service: one
// method per use case, so tests can mock each call independently and no stage
// hard-codes a global client.
type Inference interface {
	// ExtractRecord converts narrative text to a structured record.
	ExtractRecord(ctx context.Context, narrative string) (*types.ExtractedRecord, error)
	// AssessQuality scores the report; the orchestrator owns the fallback.
	AssessQuality(ctx context.Context, narrative string, record *types.ExtractedRecord) (*types.QualityAssessment, error)
	// Synthesize renders prose; the bool reports whether the local fallback
	// was used. It never fails.
	Synthesize(ctx context.Context, narrative string, record *types.ExtractedRecord, templateOverride string) (string, bool)
}

// liveInference backs Inference with the real per-stage components.
type liveInference struct {
	extractor *extraction.Extractor
	assessor  *quality.Assessor
	generator *synopsis.Generator
}

// NewInference wires the three inference use cases onto one LLM client.
func NewInference(client llm.Client) Inference {
	return &liveInference{
		extractor: extraction.NewExtractor(client),
		assessor:  quality.NewAssessor(client),
		generator: synopsis.NewGenerator(client),
	}
}

func (i *liveInference) ExtractRecord(ctx context.Context, narrative string) (*types.ExtractedRecord, error) {
	return i.extractor.Extract(ctx, narrative)
}

func (i *liveInference) AssessQuality(ctx context.Context, narrative string, record *types.ExtractedRecord) (*types.QualityAssessment, error) {
	return i.assessor.Assess(ctx, narrative, record)
}

func (i *liveInference) Synthesize(ctx context.Context, narrative string, record *types.ExtractedRecord, templateOverride string) (string, bool) {
	return i.generator.Synthesize(ctx, narrative, record, templateOverride)
}
