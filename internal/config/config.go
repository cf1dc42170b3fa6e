// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over those defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, tees logs into a rotated file.
	LogFile string `koanf:"log_file"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TMDBKey is either a v3 API key or a v4 read token (starts with "ey").
	TMDBKey string `koanf:"tmdb_key"`

	// OMDbKey enables the ratings provider. Empty disables tiers that need it.
	OMDbKey string `koanf:"omdb_key"`

	TMDBBaseURL      string `koanf:"tmdb_base_url"`
	TMDBImageBaseURL string `koanf:"tmdb_image_base_url"`
	OMDbBaseURL      string `koanf:"omdb_base_url"`
	IMDbBaseURL      string `koanf:"imdb_base_url"`

	// UpstreamTimeoutMS bounds every third-party request.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// DetailsTimeoutMS bounds a whole detail lookup across every ratings tier.
	// Keep it below the server write timeout so callers see a 504 instead
	// of a dropped connection.
	DetailsTimeoutMS int `koanf:"details_timeout_ms"`

	// UpstreamRetryMax is the number of retries after the first attempt.
	UpstreamRetryMax int `koanf:"upstream_retry_max"`

	// ScrapeFallback toggles the title page scrape tier.
	ScrapeFallback bool `koanf:"scrape_fallback"`

	// SearchLimit caps the number of search results returned.
	SearchLimit int `koanf:"search_limit"`

	// CacheSize bounds each response cache. Zero disables caching.
	CacheSize int `koanf:"cache_size"`

	SearchCacheTTLSeconds  int `koanf:"search_cache_ttl_s"`
	DetailsCacheTTLSeconds int `koanf:"details_cache_ttl_s"`

	// RateLimitPerMinute is the sustained per-client request rate. Zero disables limiting.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
	RateLimitBurst     int `koanf:"rate_limit_burst"`

	// PrefetchTopN warms the detail cache for the first N search hits. Zero disables it.
	PrefetchTopN      int `koanf:"prefetch_top_n"`
	PrefetchWorkers   int `koanf:"prefetch_workers"`
	PrefetchQueueSize int `koanf:"prefetch_queue_size"`

	// ImageProxyHosts is the allowlist for /api/image-proxy.
	ImageProxyHosts []string `koanf:"image_proxy_hosts"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		TMDBBaseURL:            "https://api.themoviedb.org/3",
		TMDBImageBaseURL:       "https://image.tmdb.org/t/p",
		OMDbBaseURL:            "https://www.omdbapi.com/",
		IMDbBaseURL:            "https://www.imdb.com",
		UpstreamTimeoutMS:      8000,
		DetailsTimeoutMS:       20000,
		UpstreamRetryMax:       2,
		ScrapeFallback:         true,
		SearchLimit:            10,
		CacheSize:              500,
		SearchCacheTTLSeconds:  300,
		DetailsCacheTTLSeconds: 3600,
		RateLimitPerMinute:     120,
		RateLimitBurst:         20,
		PrefetchTopN:           0,
		PrefetchWorkers:        2,
		PrefetchQueueSize:      256,
		ImageProxyHosts:        []string{"image.tmdb.org", "m.media-amazon.com", "via.placeholder.com"},
	}
}

// UpstreamTimeout returns UpstreamTimeoutMS as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// DetailsTimeout returns DetailsTimeoutMS as a duration.
func (c *Config) DetailsTimeout() time.Duration {
	return time.Duration(c.DetailsTimeoutMS) * time.Millisecond
}

// SearchCacheTTL returns SearchCacheTTLSeconds as a duration.
func (c *Config) SearchCacheTTL() time.Duration {
	return time.Duration(c.SearchCacheTTLSeconds) * time.Second
}

// DetailsCacheTTL returns DetailsCacheTTLSeconds as a duration.
func (c *Config) DetailsCacheTTL() time.Duration {
	return time.Duration(c.DetailsCacheTTLSeconds) * time.Second
}
