// Package trailer picks the best playable trailer among a movie's videos.
package trailer

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/metrics"
)

// Recognized platform and categories. Matching is case-sensitive.
const (
	Platform        = "YouTube"
	CategoryTrailer = "Trailer"
	CategoryTeaser  = "Teaser"

	defaultBaseURL = "https://www.youtube.com"
	officialPhrase = "official trailer"
)

// Outcome labels for metrics.
const (
	OutcomeVideo          = "video"
	OutcomeSearchFallback = "search_fallback"
)

type weights struct {
	official        int
	officialName    int
	trailerCategory int
}

// Selector ranks video candidates. The zero value is not usable; call New.
type Selector struct {
	weights weights
	baseURL string
}

// New creates a Selector with the default weights: 2 for the official flag,
// 3 for "official trailer" in the name and 1 for the Trailer category.
func New(opts ...Option) *Selector {
	s := &Selector{
		weights: weights{official: 2, officialName: 3, trailerCategory: 1},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score rates one candidate with the default weights.
func Score(v model.VideoCandidate) int {
	return defaultSelector.score(v)
}

var defaultSelector = New() //nolint:gochecknoglobals

func (s *Selector) score(v model.VideoCandidate) int {
	n := 0
	if v.IsOfficial {
		n += s.weights.official
	}
	if strings.Contains(strings.ToLower(v.DisplayName), officialPhrase) {
		n += s.weights.officialName
	}
	if v.Category == CategoryTrailer {
		n += s.weights.trailerCategory
	}
	return n
}

// Eligible reports whether a candidate can be selected at all.
func Eligible(v model.VideoCandidate) bool {
	return v.Platform == Platform && (v.Category == CategoryTrailer || v.Category == CategoryTeaser)
}

// Select returns the best candidate as playback and embed URLs, or a search
// fallback built from title and year when nothing playable exists.
func (s *Selector) Select(candidates []model.VideoCandidate, title, year string) model.SelectedTrailer {
	eligible := Rank(candidates, s.score)
	if len(eligible) == 0 || eligible[0].ExternalKey == "" {
		metrics.RecordTrailerSelection(OutcomeSearchFallback)
		return model.SelectedTrailer{SearchFallbackURL: s.SearchFallbackURL(title, year)}
	}

	key := eligible[0].ExternalKey
	metrics.RecordTrailerSelection(OutcomeVideo)
	return model.SelectedTrailer{
		ExternalKey: key,
		PlaybackURL: s.baseURL + "/watch?v=" + url.QueryEscape(key),
		EmbedURL:    s.baseURL + "/embed/" + url.PathEscape(key),
	}
}

// Rank filters candidates to eligible ones and orders them best first:
// higher score, then later publication. Input order breaks remaining ties.
func Rank(candidates []model.VideoCandidate, score func(model.VideoCandidate) int) []model.VideoCandidate {
	out := make([]model.VideoCandidate, 0, len(candidates))
	for _, v := range candidates {
		if Eligible(v) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := score(out[i]), score(out[j])
		if si != sj {
			return si > sj
		}
		return publishedAt(out[i]).After(publishedAt(out[j]))
	})
	return out
}

// SearchFallbackURL builds an embeddable search playlist URL for
// "<title> <year> official trailer". Empty parts are skipped.
func (s *Selector) SearchFallbackURL(title, year string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{title, year, officialPhrase} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return s.baseURL + "/embed?listType=search&list=" + EscapeComponent(strings.Join(parts, " "))
}

// componentMarks undoes QueryEscape for the marks encodeURIComponent leaves
// alone and spells spaces as %20.
var componentMarks = strings.NewReplacer( //nolint:gochecknoglobals
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeComponent escapes s the way encodeURIComponent does: everything but
// letters, digits and -_.!~*'() is percent-encoded as UTF-8.
func EscapeComponent(s string) string {
	return componentMarks.Replace(url.QueryEscape(s))
}

// publishedAt parses the timestamp; anything unreadable sorts as the epoch.
func publishedAt(v model.VideoCandidate) time.Time {
	if v.PublishedAt == "" {
		return time.Unix(0, 0)
	}
	t, err := time.Parse(time.RFC3339, v.PublishedAt)
	if err != nil {
		return time.Unix(0, 0)
	}
	return t
}
