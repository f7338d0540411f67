package types

// Pipeline stage identifiers used in degradation annotations.
const (
	StageTagMatching = "tag_matching"
	StageQuality     = "quality_assessment"
	StageSynopsis    = "synopsis"
)

// Degradation records that a non-fatal stage fell back to its default value,
// so callers can surface a "partial result" indicator.
type Degradation struct {
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// PipelineResult is the aggregate output of one analysis request: everything
// the persistence and CRM layers need to build a finished record.
type PipelineResult struct {
	Transcript   string            `json:"transcript"`
	Record       ExtractedRecord   `json:"record"`
	MatchedTags  []string          `json:"matched_tags"`
	Quality      QualityAssessment `json:"quality"`
	Synopsis     string            `json:"synopsis"`
	Degradations []Degradation     `json:"degradations,omitempty"`
}

// Degraded reports whether any stage substituted a fallback value.
func (r *PipelineResult) Degraded() bool {
	return len(r.Degradations) > 0
}
