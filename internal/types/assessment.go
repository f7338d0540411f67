package types

// QualityAssessment scores how complete and actionable a contact report is.
// Score is on a 0-100 scale.
type QualityAssessment struct {
	Score           float64  `json:"score"`
	Explanation     string   `json:"explanation,omitempty"`
	Recommendations []string `json:"recommendations"`
}
