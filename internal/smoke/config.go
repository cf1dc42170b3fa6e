// Package smoke drives a running lookup service end to end: it searches for
// a set of titles, loads details for the top hits and reports how many came
// back with ratings and a playable trailer.
package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL       string        // service root, e.g. http://localhost:8080
	Queries       []string      // titles to search for
	DetailsPerHit int           // details fetched per query, from the top
	Workers       int           // concurrent queries
	Timeout       time.Duration // per request
	OutputFile    string        // optional JSON report path
	Verbose       bool
}

// DefaultQueries is used when no titles are given.
var DefaultQueries = []string{
	"The Shawshank Redemption",
	"Inception",
	"Param Sundari",
	"Spirited Away",
	"The Godfather",
	"Parasite",
	"Dangal",
	"Mad Max: Fury Road",
}

// QueryResult is the outcome of one search and its detail lookups.
type QueryResult struct {
	Query       string   `json:"query"`
	Hits        int      `json:"hits"`
	SearchError string   `json:"searchError,omitempty"`
	Details     []Detail `json:"details"`
}

// Detail summarises one detail lookup.
type Detail struct {
	CatalogID  int64  `json:"tmdbId"`
	Title      string `json:"title,omitempty"`
	Numeric    string `json:"imdbRating,omitempty"`
	Percent    string `json:"rottenTomatoes,omitempty"`
	HasTrailer bool   `json:"hasTrailer"`
	UsedSearch bool   `json:"trailerIsSearch"`
	Error      string `json:"error,omitempty"`
}

// Report aggregates a run.
type Report struct {
	RunID          string        `json:"runId"`
	BaseURL        string        `json:"baseUrl"`
	Started        time.Time     `json:"started"`
	Duration       time.Duration `json:"duration"`
	Searches       int           `json:"searches"`
	SearchFailures int           `json:"searchFailures"`
	Lookups        int           `json:"lookups"`
	LookupFailures int           `json:"lookupFailures"`
	WithNumeric    int           `json:"withImdbRating"`
	WithPercent    int           `json:"withRottenTomatoes"`
	WithTrailer    int           `json:"withTrailer"`
	Results        []QueryResult `json:"results"`
}

// Failed reports whether any request failed.
func (r *Report) Failed() bool {
	return r.SearchFailures > 0 || r.LookupFailures > 0
}
