// Package service wires the lookup core to its collaborators and implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sourcegraph/conc"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/cache"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/mq/queue"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/mq/worker"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/dedupe"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/detail"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/ratings"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/trailer"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/metrics"
)

// MinQueryLength is the shortest search that reaches the catalog.
const MinQueryLength = 2

const (
	defaultSearchLimit = 10
	defaultCacheSize   = 500
	defaultSearchTTL   = 5 * time.Minute
	defaultDetailsTTL  = time.Hour
	defaultDetailsWait = 20 * time.Second
	prefetchDedupe     = 10 * time.Minute
)

// CatalogClient is the movie catalog.
type CatalogClient interface {
	Search(ctx context.Context, query string) ([]model.CatalogHit, error)
	FetchByID(ctx context.Context, id int64) (model.CatalogRecord, error)
}

// Service implements search and detail lookups.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	catalog       CatalogClient
	ratingsClient ratings.Client
	scrape        ratings.ScrapeFallback

	// Core components
	resolver    *ratings.Resolver
	selector    *trailer.Selector
	assembler   *detail.Assembler
	searchCache *cache.Cache[[]model.SearchResult]
	detailCache *cache.Cache[model.DetailRecord]

	// Prefetch
	deduper       dedupe.Deduper
	prefetchQueue *queue.InMemoryQueue
	workerPool    *worker.Pool

	// Configuration
	searchLimit       int
	imageBaseURL      string
	cacheSize         int
	searchTTL         time.Duration
	detailsTTL        time.Duration
	detailsTimeout    time.Duration
	prefetchTopN      int
	prefetchWorkers   int
	prefetchQueueSize int

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Lookups work right away; Start is only needed
// for prefetching.
func New(opts ...Option) *Service {
	s := &Service{
		searchLimit:       defaultSearchLimit,
		imageBaseURL:      detail.DefaultImageBaseURL,
		cacheSize:         defaultCacheSize,
		searchTTL:         defaultSearchTTL,
		detailsTTL:        defaultDetailsTTL,
		detailsTimeout:    defaultDetailsWait,
		prefetchWorkers:   2,
		prefetchQueueSize: 256,
		logger:            logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	ropts := []ratings.Option{ratings.WithLogger(s.logger.Named("ratings"))}
	if s.scrape != nil {
		ropts = append(ropts, ratings.WithScrapeFallback(s.scrape))
	}
	s.resolver = ratings.NewResolver(s.ratingsClient, ropts...)
	s.selector = trailer.New()
	s.assembler = detail.NewAssembler(detail.WithImageBaseURL(s.imageBaseURL))
	s.searchCache = cache.New[[]model.SearchResult]("search", cache.WithSize(s.cacheSize), cache.WithTTL(s.searchTTL))
	s.detailCache = cache.New[model.DetailRecord]("details", cache.WithSize(s.cacheSize), cache.WithTTL(s.detailsTTL))
	return s
}

// Start launches the prefetch workers when prefetching is enabled.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.prefetchTopN > 0 {
		s.deduper = dedupe.NewInMemoryDeduper(
			dedupe.WithMaxSize(s.prefetchQueueSize*4),
			dedupe.WithWindow(prefetchDedupe),
		)
		s.prefetchQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.prefetchQueueSize))
		s.workerPool = worker.NewPool(s.prefetchWorkers, s.prefetchQueue, s,
			worker.WithLogger(s.logger.Named("prefetch")),
		)

		// Workers outlive the start request.
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		s.cancel = cancel
		s.workerPool.Start(runCtx)
	}

	s.started = true
	s.logger.Info(ctx, "lookup service started",
		logger.Bool("catalog", s.catalogConfigured()),
		logger.Bool("ratings", s.ratingsClient != nil),
		logger.Bool("scrape", s.scrape != nil),
		logger.Int("prefetchTopN", s.prefetchTopN),
		logger.Int("cacheSize", s.cacheSize),
	)
	return nil
}

// Stop drains the prefetch workers.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "prefetch shutdown incomplete", logger.Error(err))
		}
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.workerPool, s.prefetchQueue, s.deduper, s.cancel = nil, nil, nil, nil
	s.started = false
	s.logger.Info(ctx, "lookup service stopped")
}

// Search returns at most searchLimit catalog hits for q. Queries shorter than
// MinQueryLength return an empty list without touching the catalog.
func (s *Service) Search(ctx context.Context, q string) ([]model.SearchResult, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinQueryLength {
		metrics.RecordSearch("short")
		return []model.SearchResult{}, nil
	}
	if !s.catalogConfigured() {
		metrics.RecordSearch("unconfigured")
		return nil, ErrNotConfigured
	}

	key := strings.ToLower(q)
	if cached, ok := s.searchCache.Get(key); ok {
		metrics.RecordSearch("cached")
		return cached, nil
	}

	hits, err := s.catalog.Search(ctx, q)
	if err != nil {
		metrics.RecordSearch("error")
		metrics.RecordErrorByComponent("service", "catalog_search")
		s.logger.Warn(ctx, "catalog search failed", logger.String("query", q), logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	if len(hits) > s.searchLimit {
		hits = hits[:s.searchLimit]
	}
	results := make([]model.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, s.toSearchResult(h))
	}

	s.searchCache.Add(key, results)
	s.schedulePrefetch(ctx, q, results)
	metrics.RecordSearch("ok")
	return results, nil
}

// Details looks up one movie and resolves its ratings and trailer. Only a
// catalog failure is an error; missing ratings or videos are not.
func (s *Service) Details(ctx context.Context, id int64) (model.DetailRecord, error) {
	if id <= 0 {
		metrics.RecordDetails("invalid")
		return model.DetailRecord{}, ErrInvalidID
	}
	if !s.catalogConfigured() {
		metrics.RecordDetails("unconfigured")
		return model.DetailRecord{}, ErrNotConfigured
	}

	key := strconv.FormatInt(id, 10)
	if cached, ok := s.detailCache.Get(key); ok {
		metrics.RecordDetails("cached")
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.detailsTimeout)
	defer cancel()

	rec, err := s.catalog.FetchByID(ctx, id)
	if err != nil {
		metrics.RecordDetails("error")
		metrics.RecordErrorByComponent("service", "catalog_fetch")
		s.logger.Warn(ctx, "catalog fetch failed", logger.Int64("tmdbId", id), logger.Error(err))
		return model.DetailRecord{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	var (
		resolved model.ResolvedRatings
		selected model.SelectedTrailer
		wg       conc.WaitGroup
	)
	wg.Go(func() { resolved = s.resolver.Resolve(ctx, rec) })
	wg.Go(func() { selected = s.selector.Select(rec.CandidateVideos, rec.DisplayTitle(), rec.ReleaseYear) })
	wg.Wait()

	out := s.assembler.Assemble(rec, resolved, selected)

	// A cancelled lookup may be missing data it would otherwise have had.
	if err := ctx.Err(); err != nil {
		metrics.RecordDetails("partial")
		s.logger.Warn(ctx, "details returned partial record", logger.Int64("tmdbId", id), logger.Error(err))
		return out, nil
	}
	s.detailCache.Add(key, out)
	metrics.RecordDetails("ok")
	s.logger.Debug(ctx, "details assembled",
		logger.Int64("tmdbId", id),
		logger.Bool("numeric", out.NumericScore != nil),
		logger.Bool("percent", out.PercentScore != nil),
		logger.Bool("trailer", out.Trailer.ExternalKey != ""),
	)
	return out, nil
}

// Warm fills the details cache for id. It implements worker.Warmer.
func (s *Service) Warm(ctx context.Context, id int64) error {
	if s.detailCache.Contains(strconv.FormatInt(id, 10)) {
		return nil
	}
	_, err := s.Details(ctx, id)
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started": s.started,
		"providers": map[string]bool{
			"catalog": s.catalogConfigured(),
			"ratings": s.ratingsClient != nil,
			"scrape":  s.scrape != nil,
		},
		"searchCacheEntries":  s.searchCache.Len(),
		"detailsCacheEntries": s.detailCache.Len(),
		"cacheSize":           s.cacheSize,
		"searchLimit":         s.searchLimit,
	}

	prefetch := map[string]any{"enabled": s.prefetchTopN > 0, "topN": s.prefetchTopN}
	if s.started && s.workerPool != nil {
		prefetch["workers"] = s.workerPool.Size()
		prefetch["queueLength"] = s.prefetchQueue.Len()
		prefetch["queueCapacity"] = s.prefetchQueue.Capacity()
		prefetch["dedupeSize"] = s.deduper.Size()
	}
	stats["prefetch"] = prefetch
	return stats
}

func (s *Service) toSearchResult(h model.CatalogHit) model.SearchResult {
	r := model.SearchResult{
		CatalogID: h.CatalogID,
		Title:     h.Title,
		Year:      h.ReleaseYear,
	}
	if r.Year == "" {
		r.Year = detail.Placeholder
	}
	if u := detail.ImageURL(s.imageBaseURL, detail.SearchThumbSize, h.PosterPath); u != "" {
		r.Poster = &u
	}
	return r
}

func (s *Service) schedulePrefetch(ctx context.Context, q string, results []model.SearchResult) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started || s.prefetchQueue == nil {
		return
	}
	n := min(s.prefetchTopN, len(results))
	for _, r := range results[:n] {
		key := strconv.FormatInt(r.CatalogID, 10)
		if s.detailCache.Contains(key) || s.deduper.SeenAndRecord(ctx, key) {
			continue
		}
		if !s.prefetchQueue.Enqueue(ctx, model.PrefetchJob{CatalogID: r.CatalogID, Query: q}) {
			s.deduper.Unrecord(ctx, key)
			s.logger.Debug(ctx, "prefetch skipped", logger.Int64("tmdbId", r.CatalogID), logger.Error(queue.ErrQueueFull))
		}
	}
}

func (s *Service) catalogConfigured() bool {
	if s.catalog == nil {
		return false
	}
	if c, ok := s.catalog.(interface{ Configured() bool }); ok {
		return c.Configured()
	}
	return true
}
