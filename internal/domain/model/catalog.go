// Package model contains domain models passed between layers.
package model

// CatalogRecord is one movie as described by the catalog provider.
// Empty strings mean "absent".
type CatalogRecord struct {
	CatalogID       int64
	CrossRefID      string // ratings-provider identifier, e.g. "tt0111161"
	PrimaryTitle    string
	AlternateTitle  string
	Tagline         string
	ReleaseYear     string // four digits when known
	Genres          []string
	Overview        string
	PosterPath      string // path relative to the image CDN size root
	CandidateVideos []VideoCandidate
}

// DisplayTitle returns the primary title, falling back to the alternate one.
func (r CatalogRecord) DisplayTitle() string {
	if r.PrimaryTitle != "" {
		return r.PrimaryTitle
	}
	return r.AlternateTitle
}

// VideoCandidate is a trailer-like video attached to a catalog record.
type VideoCandidate struct {
	Platform    string // only "YouTube" is playable
	Category    string // "Trailer", "Teaser", "Clip", ...
	IsOfficial  bool
	DisplayName string
	PublishedAt string // RFC 3339 when present
	ExternalKey string
}

// CatalogHit is one entry of a catalog keyword search.
type CatalogHit struct {
	CatalogID   int64
	Title       string
	ReleaseYear string
	PosterPath  string
}

// SearchResult is a catalog hit shaped for display.
type SearchResult struct {
	CatalogID int64   `json:"tmdbId"`
	Title     string  `json:"title"`
	Year      string  `json:"year"`
	Poster    *string `json:"poster"`
}

// PrefetchJob asks the background workers to warm one detail record.
type PrefetchJob struct {
	CatalogID int64
	Query     string // search that produced the job, for logs
}
