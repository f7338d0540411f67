// Package analysis orchestrates the interaction analysis pipeline: transcript
// resolution, structured extraction, the parallel enrichment fan-out, and
// synopsis generation, all under one request-scoped deadline.
package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/daniel/fieldnote-analyzer/internal/logging"
	"github.com/daniel/fieldnote-analyzer/internal/matching"
	"github.com/daniel/fieldnote-analyzer/internal/transcript"
	"github.com/daniel/fieldnote-analyzer/internal/types"
)

// Default budgets. The outer deadline is deliberately shorter than upstream
// platform timeouts so callers never receive a response assembled after an
// unbounded delay.
const (
	DefaultDeadline      = 25 * time.Second
	DefaultBranchTimeout = 8 * time.Second

	// DefaultQualityScore is substituted when the assessment branch fails.
	DefaultQualityScore = 75.0

	// qualityUnavailableNote is the recommendation attached to the fallback
	// assessment so the degradation is visible in the record itself.
	qualityUnavailableNote = "Automated quality assessment was unavailable for this report."
)

// ThresholdSource supplies the confidence threshold (0-1) captured at matcher
// construction. Implementations read the administrative setting; the value is
// never re-read mid-request.
type ThresholdSource interface {
	ConfidenceThreshold(ctx context.Context) float64
}

// ThresholdFunc adapts a function to ThresholdSource.
type ThresholdFunc func(ctx context.Context) float64

// ConfidenceThreshold implements ThresholdSource.
func (f ThresholdFunc) ConfidenceThreshold(ctx context.Context) float64 {
	return f(ctx)
}

// FixedThreshold returns a ThresholdSource with a constant value.
func FixedThreshold(v float64) ThresholdSource {
	return ThresholdFunc(func(context.Context) float64 { return v })
}

// Request is one analysis invocation.
type Request struct {
	Input types.NarrativeInput
	// ProspectName, when set, overrides the extractor's name hint after
	// extraction so the model is never biased by it.
	ProspectName string
	// SynopsisTemplate is the caller's per-user prompt override, if any.
	SynopsisTemplate string
}

// Options configures a Pipeline. Zero-valued durations and scores pick up the
// package defaults.
type Options struct {
	Resolver            *transcript.Resolver
	Inference           Inference
	Catalog             *matching.Catalog
	Similarity          matching.Similarity
	Threshold           ThresholdSource
	Deadline            time.Duration
	BranchTimeout       time.Duration
	DefaultQualityScore float64
}

// Pipeline runs analysis requests. It is safe for concurrent use; all
// per-request state lives on the stack of Analyze.
type Pipeline struct {
	opts Options
}

// NewPipeline validates options and applies defaults.
func NewPipeline(opts Options) *Pipeline {
	if opts.Deadline <= 0 {
		opts.Deadline = DefaultDeadline
	}
	if opts.BranchTimeout <= 0 {
		opts.BranchTimeout = DefaultBranchTimeout
	}
	if opts.DefaultQualityScore <= 0 {
		opts.DefaultQualityScore = DefaultQualityScore
	}
	if opts.Threshold == nil {
		opts.Threshold = FixedThreshold(0.25)
	}
	return &Pipeline{opts: opts}
}

// Analyze runs the full pipeline for one request.
//
// Stage order is fixed: resolution, then extraction, then the enrichment
// fan-out (tag matching and quality assessment concurrently, each settled
// with a default on failure), then synthesis. Resolution and extraction
// failures are fatal; enrichment and synthesis never are. The outer deadline
// starts after resolution and aborts all remaining work when exceeded.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*types.PipelineResult, error) {
	log := logging.New("analysis")

	// Resolving.
	narrative, err := p.opts.Resolver.Resolve(ctx, req.Input)
	if err != nil {
		return nil, classifyResolveError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.Deadline)
	defer cancel()

	// Extracting. Load-bearing: no fallback.
	record, err := p.opts.Inference.ExtractRecord(ctx, narrative)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &PipelineError{Reason: ReasonPipelineTimeout, Err: ctx.Err()}
		}
		return nil, &PipelineError{Reason: ReasonExtractionFailed, Err: err}
	}
	if strings.TrimSpace(req.ProspectName) != "" {
		record.ProspectNameHint = strings.TrimSpace(req.ProspectName)
	}

	// Enriching. Both branches settle with defaults; neither can fail the
	// request, and the slower branch never blocks past its own timeout.
	snapshot := p.opts.Catalog.Snapshot()
	threshold := p.opts.Threshold.ConfidenceThreshold(ctx)

	var (
		tagMatches   []types.TagMatch
		tagErr       error
		assessment   *types.QualityAssessment
		assessErr    error
		degradations []types.Degradation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tagMatches, tagErr = settleWithDefault(gctx, p.opts.BranchTimeout, []types.TagMatch{},
			func(branchCtx context.Context) ([]types.TagMatch, error) {
				if err := branchCtx.Err(); err != nil {
					return nil, err
				}
				matcher := matching.NewMatcher(snapshot, threshold, p.opts.Similarity)
				return matcher.Match(record.ProfessionalInterests, record.PersonalInterests, record.PhilanthropicPriorities, narrative), nil
			})
		return nil
	})
	g.Go(func() error {
		fallback := &types.QualityAssessment{
			Score:           p.opts.DefaultQualityScore,
			Recommendations: []string{qualityUnavailableNote},
		}
		assessment, assessErr = settleWithDefault(gctx, p.opts.BranchTimeout, fallback,
			func(branchCtx context.Context) (*types.QualityAssessment, error) {
				return p.opts.Inference.AssessQuality(branchCtx, narrative, record)
			})
		return nil
	})
	_ = g.Wait() // branches never return errors; they settle

	if ctx.Err() != nil {
		return nil, &PipelineError{Reason: ReasonPipelineTimeout, Err: ctx.Err()}
	}

	if tagErr != nil {
		log.WithError(tagErr).Warn("tag matching degraded")
		degradations = append(degradations, types.Degradation{Stage: types.StageTagMatching, Reason: tagErr.Error()})
	}
	if assessErr != nil {
		log.WithError(assessErr).Warn("quality assessment degraded")
		degradations = append(degradations, types.Degradation{Stage: types.StageQuality, Reason: assessErr.Error()})
	}

	// Synthesizing. Never fatal; the generator falls back internally.
	synopsisText, synopsisDegraded := p.opts.Inference.Synthesize(ctx, narrative, record, req.SynopsisTemplate)
	if synopsisDegraded {
		degradations = append(degradations, types.Degradation{Stage: types.StageSynopsis, Reason: "synopsis generation unavailable, local fallback used"})
	}

	if ctx.Err() != nil {
		return nil, &PipelineError{Reason: ReasonPipelineTimeout, Err: ctx.Err()}
	}

	// Aggregated.
	tagNames := make([]string, 0, len(tagMatches))
	for _, match := range tagMatches {
		tagNames = append(tagNames, match.Tag.Name)
	}

	result := &types.PipelineResult{
		Transcript:   narrative,
		Record:       *record,
		MatchedTags:  tagNames,
		Quality:      *assessment,
		Synopsis:     synopsisText,
		Degradations: degradations,
	}

	log.WithField("tags", len(tagNames)).
		WithField("quality_score", assessment.Score).
		WithField("degraded", result.Degraded()).
		Info("analysis aggregated")

	return result, nil
}

// classifyResolveError maps resolver failures onto the pipeline taxonomy.
func classifyResolveError(err error) error {
	var noInput *transcript.NoInputError
	if errors.As(err, &noInput) {
		return &PipelineError{Reason: ReasonNoInput, Err: err}
	}
	return &PipelineError{Reason: ReasonTranscriptionUnavailable, Err: err}
}
