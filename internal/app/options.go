package service

import (
	"time"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/ratings"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the catalog client. Search and Details fail with
// ErrNotConfigured without one.
func WithCatalog(c CatalogClient) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithRatingsClient enables the identifier and title ratings tiers.
func WithRatingsClient(c ratings.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.ratingsClient = c
		}
	}
}

// WithScrapeFallback enables the title page scrape tier.
func WithScrapeFallback(f ratings.ScrapeFallback) Option {
	return func(s *Service) {
		if f != nil {
			s.scrape = f
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDetailsTimeout bounds each detail lookup. A lookup that runs out of
// time returns what it resolved so far and is not cached.
func WithDetailsTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.detailsTimeout = d
		}
	}
}

// WithSearchLimit caps the number of search results returned.
func WithSearchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.searchLimit = n
		}
	}
}

// WithImageBaseURL sets the poster CDN root.
func WithImageBaseURL(base string) Option {
	return func(s *Service) {
		if base != "" {
			s.imageBaseURL = base
		}
	}
}

// WithCache sizes both response caches and sets their TTLs. A size of zero
// disables caching.
func WithCache(size int, searchTTL, detailsTTL time.Duration) Option {
	return func(s *Service) {
		if size >= 0 {
			s.cacheSize = size
		}
		if searchTTL >= 0 {
			s.searchTTL = searchTTL
		}
		if detailsTTL >= 0 {
			s.detailsTTL = detailsTTL
		}
	}
}

// WithPrefetch warms the details cache for the first topN hits of every
// search. A topN of zero turns prefetching off.
func WithPrefetch(topN, workers, queueSize int) Option {
	return func(s *Service) {
		if topN >= 0 {
			s.prefetchTopN = topN
		}
		if workers > 0 {
			s.prefetchWorkers = workers
		}
		if queueSize > 0 {
			s.prefetchQueueSize = queueSize
		}
	}
}
