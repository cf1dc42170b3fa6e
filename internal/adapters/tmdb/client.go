// Package tmdb is the catalog provider backed by The Movie Database v3 API.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/httpx"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
)

// DefaultBaseURL is the public v3 endpoint.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// ErrNoKey is returned when the client was built without credentials.
var ErrNoKey = errors.New("tmdb: api key not configured")

// Client implements the catalog lookups.
type Client struct {
	key     string
	baseURL string
	http    *httpx.Client
}

// New creates a Client. Keys starting with "ey" are treated as v4 read
// tokens and sent as a bearer header; anything else as a v3 api_key.
func New(key, baseURL string, hc *httpx.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = httpx.New("tmdb")
	}
	return &Client{
		key:     strings.TrimSpace(key),
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// Configured reports whether a key is present.
func (c *Client) Configured() bool { return c.key != "" }

// Search runs a keyword search and returns the first page of hits.
func (c *Client) Search(ctx context.Context, query string) ([]model.CatalogHit, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")
	q.Set("language", "en-US")
	q.Set("page", "1")

	var resp searchResponse
	if err := c.get(ctx, "search", "/search/movie", q, &resp); err != nil {
		return nil, err
	}

	hits := make([]model.CatalogHit, 0, len(resp.Results))
	for _, m := range resp.Results {
		hits = append(hits, model.CatalogHit{
			CatalogID:   m.ID,
			Title:       m.Title,
			ReleaseYear: yearOf(m.ReleaseDate),
			PosterPath:  m.PosterPath,
		})
	}
	return hits, nil
}

// FetchByID loads one movie with its external ids and videos.
func (c *Client) FetchByID(ctx context.Context, id int64) (model.CatalogRecord, error) {
	q := url.Values{}
	q.Set("append_to_response", "external_ids,videos")

	var m movieResponse
	if err := c.get(ctx, "fetch", "/movie/"+strconv.FormatInt(id, 10), q, &m); err != nil {
		return model.CatalogRecord{}, err
	}
	return toRecord(m), nil
}

// get tries the bearer form first for v4 tokens and falls back to api_key
// when the token is rejected.
func (c *Client) get(ctx context.Context, op, path string, q url.Values, v any) error {
	if c.key == "" {
		return ErrNoKey
	}

	if strings.HasPrefix(c.key, "ey") {
		header := http.Header{}
		header.Set("Authorization", "Bearer "+c.key)
		header.Set("Accept", "application/json")
		err := c.http.GetJSON(ctx, op, c.baseURL+path+"?"+q.Encode(), header, v)
		if err == nil {
			return nil
		}
		if s := httpx.StatusOf(err); s != http.StatusUnauthorized && s != http.StatusNotFound {
			return fmt.Errorf("tmdb %s: %w", op, err)
		}
	}

	withKey := url.Values{}
	for k, vs := range q {
		withKey[k] = vs
	}
	withKey.Set("api_key", c.key)
	if err := c.http.GetJSON(ctx, op, c.baseURL+path+"?"+withKey.Encode(), nil, v); err != nil {
		return fmt.Errorf("tmdb %s: %w", op, err)
	}
	return nil
}

func toRecord(m movieResponse) model.CatalogRecord {
	rec := model.CatalogRecord{
		CatalogID:      m.ID,
		CrossRefID:     strings.TrimSpace(m.ExternalIDs.IMDbID),
		PrimaryTitle:   m.Title,
		AlternateTitle: m.OriginalTitle,
		Tagline:        m.Tagline,
		ReleaseYear:    yearOf(m.ReleaseDate),
		Overview:       m.Overview,
		PosterPath:     m.PosterPath,
		Genres:         make([]string, 0, len(m.Genres)),
	}
	for _, g := range m.Genres {
		if g.Name != "" {
			rec.Genres = append(rec.Genres, g.Name)
		}
	}
	for _, v := range m.Videos.Results {
		rec.CandidateVideos = append(rec.CandidateVideos, model.VideoCandidate{
			Platform:    v.Site,
			Category:    v.Type,
			IsOfficial:  v.Official,
			DisplayName: v.Name,
			PublishedAt: v.PublishedAt,
			ExternalKey: v.Key,
		})
	}
	return rec
}

func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}
