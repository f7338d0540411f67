package types

// ExtractedRecord is the structured view of a narrative produced by the
// extraction stage. It is built once per request and is immutable afterward,
// except for ProspectNameHint which a caller-supplied name may override.
type ExtractedRecord struct {
	Summary                 string   `json:"summary"`
	Category                string   `json:"category"`
	Subcategory             string   `json:"subcategory"`
	ProfessionalInterests   []string `json:"professional_interests"`
	PersonalInterests       []string `json:"personal_interests"`
	PhilanthropicPriorities []string `json:"philanthropic_priorities"`
	ProspectNameHint        string   `json:"prospect_name,omitempty"`
}

// AllInterests returns the three interest lists flattened in a fixed order:
// professional, personal, philanthropic.
func (r *ExtractedRecord) AllInterests() []string {
	out := make([]string, 0, len(r.ProfessionalInterests)+len(r.PersonalInterests)+len(r.PhilanthropicPriorities))
	out = append(out, r.ProfessionalInterests...)
	out = append(out, r.PersonalInterests...)
	out = append(out, r.PhilanthropicPriorities...)
	return out
}
