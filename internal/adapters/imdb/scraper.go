// Package imdb extracts the aggregate user rating from the public title page.
// It is a last-resort source and never reports errors to its caller.
package imdb

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/httpx"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/metrics"
)

// DefaultBaseURL is the public site.
const DefaultBaseURL = "https://www.imdb.com"

// Parse paths, also used as metric outcomes.
const (
	PathJSONLD = "jsonld"
	PathRegex  = "regex"
	PathMiss   = "miss"
	pathError  = "error"
)

var (
	ratingPattern = regexp.MustCompile(`"aggregateRating"\s*:\s*\{[^}]*?"ratingValue"\s*:\s*"?([0-9]+(?:\.[0-9]+)?)"?`)
	idPattern     = regexp.MustCompile(`^tt\d+$`)
)

// Scraper implements ratings.ScrapeFallback.
type Scraper struct {
	baseURL string
	http    *httpx.Client
	log     logger.Logger
}

// New creates a Scraper. A nil logger discards output.
func New(baseURL string, hc *httpx.Client, log logger.Logger) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = httpx.New("imdb")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Scraper{baseURL: strings.TrimRight(baseURL, "/"), http: hc, log: log}
}

// FetchNumericScore returns the rating formatted to one decimal, e.g. "7.8".
func (s *Scraper) FetchNumericScore(ctx context.Context, id string) (string, bool) {
	id = strings.TrimSpace(id)
	if !idPattern.MatchString(id) {
		return "", false
	}

	header := http.Header{}
	header.Set("Accept-Language", "en-US,en;q=0.9")
	header.Set("Accept", "text/html")
	resp, err := s.http.Get(ctx, "title_page", s.baseURL+"/title/"+url.PathEscape(id)+"/", header)
	if err != nil {
		s.log.Debug(ctx, "title page fetch failed", logger.String("id", id), logger.Error(err))
		metrics.RecordScrapeAttempt(pathError)
		return "", false
	}

	value, path := ParseRating(resp.Body)
	metrics.RecordScrapeAttempt(path)
	if path == PathMiss {
		s.log.Debug(ctx, "title page has no rating", logger.String("id", id))
		return "", false
	}
	return value, true
}

// ParseRating looks for the rating in JSON-LD islands first and in the raw
// markup second. The returned path is one of PathJSONLD, PathRegex, PathMiss.
func ParseRating(page []byte) (string, string) {
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page)); err == nil {
		var found string
		doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if v, ok := ratingFromJSONLD([]byte(sel.Text())); ok {
				found = v
				return false
			}
			return true
		})
		if found != "" {
			return found, PathJSONLD
		}
	}

	if m := ratingPattern.FindSubmatch(page); m != nil {
		if v, ok := format(string(m[1])); ok {
			return v, PathRegex
		}
	}
	return "", PathMiss
}

type ldNode struct {
	AggregateRating *struct {
		RatingValue json.RawMessage `json:"ratingValue"`
	} `json:"aggregateRating"`
	Graph []ldNode `json:"@graph"`
}

func ratingFromJSONLD(raw []byte) (string, bool) {
	raw = bytes.TrimSpace(raw)
	var nodes []ldNode
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &nodes); err != nil {
			return "", false
		}
	} else {
		var n ldNode
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false
		}
		nodes = []ldNode{n}
	}
	return firstRating(nodes)
}

func firstRating(nodes []ldNode) (string, bool) {
	for _, n := range nodes {
		if n.AggregateRating != nil && len(n.AggregateRating.RatingValue) > 0 {
			v := strings.Trim(string(n.AggregateRating.RatingValue), `"`)
			if out, ok := format(v); ok {
				return out, true
			}
		}
		if out, ok := firstRating(n.Graph); ok {
			return out, true
		}
	}
	return "", false
}

func format(v string) (string, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 || f > 10 {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', 1, 64), true
}
