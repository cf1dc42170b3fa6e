package model

// NoData is the ratings provider's sentinel for a missing value.
const NoData = "N/A"

// SourceRating is one entry of a ratings record's mapping list.
type SourceRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// RatingRecord is a ratings provider answer. Success is false when the
// provider reported no match; that is not an error.
type RatingRecord struct {
	Success           bool
	NumericScore      string
	Sources           []SourceRating
	MatchedCrossRefID string
	Title             string
	Year              string
}

// SearchHit is one entry of a ratings provider keyword search.
type SearchHit struct {
	ID    string
	Title string
	Year  string
}

// ResolvedRatings holds the merged ratings. Nil means unresolved.
//
// NumericScore is "<v>/10" when it came from the dedicated numeric field or
// the title page scrape, and the raw mapping-list value (already "<v>/10" in
// practice) when it came from the mapping list.
type ResolvedRatings struct {
	NumericScore       *string
	PercentScore       *string
	ResolvedCrossRefID *string
}
