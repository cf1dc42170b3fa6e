// Package omdb is the ratings provider backed by the OMDb API.
package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/httpx"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
)

// DefaultBaseURL is the public endpoint.
const DefaultBaseURL = "https://www.omdbapi.com/"

// ErrNoKey is returned when the client was built without credentials.
var ErrNoKey = errors.New("omdb: api key not configured")

type titleResponse struct {
	Response   string               `json:"Response"`
	Error      string               `json:"Error"`
	Title      string               `json:"Title"`
	Year       string               `json:"Year"`
	IMDbID     string               `json:"imdbID"`
	IMDbRating string               `json:"imdbRating"`
	Ratings    []model.SourceRating `json:"Ratings"`
}

type searchResponse struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	Search   []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		IMDbID string `json:"imdbID"`
		Type   string `json:"Type"`
	} `json:"Search"`
}

// Client implements ratings.Client.
type Client struct {
	key     string
	baseURL string
	http    *httpx.Client
}

// New creates a Client.
func New(key, baseURL string, hc *httpx.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = httpx.New("omdb")
	}
	return &Client{key: strings.TrimSpace(key), baseURL: baseURL, http: hc}
}

// FetchByCrossRefID looks a title up by its IMDb identifier.
func (c *Client) FetchByCrossRefID(ctx context.Context, id string) (model.RatingRecord, error) {
	q := url.Values{}
	q.Set("i", id)
	q.Set("plot", "short")
	return c.title(ctx, "by_id", q)
}

// FetchByTitleExact looks a title up by exact name and optional year.
func (c *Client) FetchByTitleExact(ctx context.Context, title, year string) (model.RatingRecord, error) {
	q := url.Values{}
	q.Set("t", title)
	if year != "" {
		q.Set("y", year)
	}
	q.Set("type", "movie")
	return c.title(ctx, "by_title", q)
}

// SearchByTitle runs a keyword search. "Movie not found" is an empty result.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]model.SearchHit, error) {
	q := url.Values{}
	q.Set("s", title)
	q.Set("type", "movie")

	var resp searchResponse
	if err := c.get(ctx, "search", q, &resp); err != nil {
		return nil, err
	}
	if !strings.EqualFold(resp.Response, "True") {
		return nil, nil
	}
	hits := make([]model.SearchHit, 0, len(resp.Search))
	for _, s := range resp.Search {
		if s.IMDbID == "" {
			continue
		}
		hits = append(hits, model.SearchHit{ID: s.IMDbID, Title: s.Title, Year: s.Year})
	}
	return hits, nil
}

func (c *Client) title(ctx context.Context, op string, q url.Values) (model.RatingRecord, error) {
	var resp titleResponse
	if err := c.get(ctx, op, q, &resp); err != nil {
		return model.RatingRecord{}, err
	}
	return model.RatingRecord{
		Success:           strings.EqualFold(resp.Response, "True"),
		NumericScore:      resp.IMDbRating,
		Sources:           resp.Ratings,
		MatchedCrossRefID: resp.IMDbID,
		Title:             resp.Title,
		Year:              resp.Year,
	}, nil
}

func (c *Client) get(ctx context.Context, op string, q url.Values, v any) error {
	if c.key == "" {
		return ErrNoKey
	}
	q.Set("apikey", c.key)

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	if err := c.http.GetJSON(ctx, op, c.baseURL+sep+q.Encode(), nil, v); err != nil {
		return fmt.Errorf("omdb %s: %w", op, err)
	}
	return nil
}
