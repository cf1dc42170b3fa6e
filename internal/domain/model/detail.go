package model

// SelectedTrailer is either a concrete video (ExternalKey, PlaybackURL,
// EmbedURL) or a search fallback (SearchFallbackURL). Never both.
type SelectedTrailer struct {
	ExternalKey       string `json:"key,omitempty"`
	PlaybackURL       string `json:"url,omitempty"`
	EmbedURL          string `json:"embedUrl,omitempty"`
	SearchFallbackURL string `json:"searchEmbedUrl,omitempty"`
}

// IsFallback reports whether the trailer is a search fallback.
func (t SelectedTrailer) IsFallback() bool {
	return t.ExternalKey == "" && t.SearchFallbackURL != ""
}

// Links are outbound URLs for a detail record.
type Links struct {
	TitlePage    string `json:"imdb,omitempty"`
	ReviewSearch string `json:"rottenTomatoes"`
}

// DetailRecord is the display record returned by a detail lookup.
type DetailRecord struct {
	CatalogID    int64           `json:"tmdbId"`
	CrossRefID   *string         `json:"imdbId"`
	Title        string          `json:"title"`
	Year         string          `json:"year"`
	Genres       []string        `json:"genres"`
	Poster       *string         `json:"poster"`
	Plot         *string         `json:"plot"`
	NumericScore *string         `json:"imdbRating"`
	PercentScore *string         `json:"rottenTomatoes"`
	Trailer      SelectedTrailer `json:"trailer"`
	Links        Links           `json:"links"`
}
