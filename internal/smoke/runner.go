package smoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/httpx"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/types"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
)

const (
	defaultWorkers       = 4
	defaultDetailsPerHit = 1
	reportPermission     = 0o600
)

// ErrUnhealthy is returned when the service does not answer /healthz.
var ErrUnhealthy = errors.New("smoke: service unhealthy")

type runner struct {
	cfg    *Config
	client *httpx.Client
	runID  string
	log    logger.Logger
}

// Run executes one smoke pass. Individual request failures are counted in
// the report; only an unreachable service or an unwritable report file are
// returned as errors.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	r := &runner{
		cfg:    cfg,
		client: httpx.New("smoke", httpx.WithTimeout(cfg.Timeout), httpx.WithRetry(0, 0)),
		runID:  uuid.NewString(),
		log:    logger.Named("smoke"),
	}
	queries := cfg.Queries
	if len(queries) == 0 {
		queries = DefaultQueries
	}

	report := &Report{RunID: r.runID, BaseURL: cfg.BaseURL, Started: time.Now()}
	r.log.Info(ctx, "starting smoke run",
		logger.String("runId", r.runID),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("queries", len(queries)),
		logger.Int("workers", r.workers()))

	if err := r.health(ctx); err != nil {
		return nil, err
	}

	report.Results = make([]QueryResult, len(queries))
	p := pool.New().WithMaxGoroutines(r.workers())
	for i, q := range queries {
		i, q := i, q
		p.Go(func() { report.Results[i] = r.query(ctx, i, q) })
	}
	p.Wait()

	for _, qr := range report.Results {
		report.Searches++
		if qr.SearchError != "" {
			report.SearchFailures++
		}
		for _, d := range qr.Details {
			report.Lookups++
			if d.Error != "" {
				report.LookupFailures++
				continue
			}
			if d.Numeric != "" {
				report.WithNumeric++
			}
			if d.Percent != "" {
				report.WithPercent++
			}
			if d.HasTrailer {
				report.WithTrailer++
			}
		}
	}
	report.Duration = time.Since(report.Started)

	r.log.Info(ctx, "smoke run finished",
		logger.String("runId", r.runID),
		logger.Int("searches", report.Searches),
		logger.Int("searchFailures", report.SearchFailures),
		logger.Int("lookups", report.Lookups),
		logger.Int("lookupFailures", report.LookupFailures),
		logger.Int("withImdbRating", report.WithNumeric),
		logger.Int("withRottenTomatoes", report.WithPercent),
		logger.Int("withTrailer", report.WithTrailer),
		logger.Duration("duration", report.Duration))

	if cfg.OutputFile != "" {
		if err := save(cfg.OutputFile, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (r *runner) workers() int {
	if r.cfg.Workers < 1 {
		return defaultWorkers
	}
	return r.cfg.Workers
}

func (r *runner) health(ctx context.Context) error {
	var h types.HealthResponse
	if err := r.client.GetJSON(ctx, "health", r.cfg.BaseURL+"/healthz", r.header("health"), &h); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if h.Status != "ok" {
		return fmt.Errorf("%w: status %q", ErrUnhealthy, h.Status)
	}
	return nil
}

func (r *runner) query(ctx context.Context, n int, q string) QueryResult {
	out := QueryResult{Query: q, Details: []Detail{}}

	var resp types.SearchResponse
	err := r.client.GetJSON(ctx, "search",
		r.cfg.BaseURL+"/api/search?q="+url.QueryEscape(q), r.header("s"+strconv.Itoa(n)), &resp)
	if err != nil {
		out.SearchError = err.Error()
		r.log.Warn(ctx, "search failed", logger.String("query", q), logger.Error(err))
		return out
	}
	out.Hits = len(resp.Results)

	per := r.cfg.DetailsPerHit
	if per < 1 {
		per = defaultDetailsPerHit
	}
	for i, hit := range resp.Results[:min(per, len(resp.Results))] {
		out.Details = append(out.Details, r.details(ctx, fmt.Sprintf("d%d-%d", n, i), hit.CatalogID))
	}
	return out
}

func (r *runner) details(ctx context.Context, tag string, id int64) Detail {
	d := Detail{CatalogID: id}

	var rec model.DetailRecord
	err := r.client.GetJSON(ctx, "details",
		r.cfg.BaseURL+"/api/details?tmdbId="+strconv.FormatInt(id, 10), r.header(tag), &rec)
	if err != nil {
		d.Error = err.Error()
		r.log.Warn(ctx, "details failed", logger.Int64("tmdbId", id), logger.Error(err))
		return d
	}

	d.Title = rec.Title
	if rec.NumericScore != nil {
		d.Numeric = *rec.NumericScore
	}
	if rec.PercentScore != nil {
		d.Percent = *rec.PercentScore
	}
	d.HasTrailer = rec.Trailer.ExternalKey != "" || rec.Trailer.SearchFallbackURL != ""
	d.UsedSearch = rec.Trailer.IsFallback()

	if r.cfg.Verbose {
		r.log.Info(ctx, "details",
			logger.Int64("tmdbId", id),
			logger.String("title", d.Title),
			logger.String("imdbRating", d.Numeric),
			logger.String("rottenTomatoes", d.Percent),
			logger.Bool("trailerIsSearch", d.UsedSearch))
	}
	return d
}

// header tags every request so server logs can be joined to a run.
func (r *runner) header(tag string) http.Header {
	h := http.Header{}
	h.Set("X-Request-ID", r.runID+"-"+tag)
	h.Set("Accept", "application/json")
	return h
}

func save(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), reportPermission); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
