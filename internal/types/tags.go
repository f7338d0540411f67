package types

// TagCatalogEntry is one affinity tag from the taxonomy catalog. IDs are
// unique across the catalog; names are unique within it.
type TagCatalogEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// TagMatch pairs a catalog tag with the confidence score it earned against a
// particular interest phrase. Matches are transient; only tag names are
// carried into the final result.
type TagMatch struct {
	Tag             TagCatalogEntry `json:"tag"`
	Score           float64         `json:"score"`
	MatchedInterest string          `json:"matched_interest"`
}
