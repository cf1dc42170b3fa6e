package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/http/api"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/http/swagger"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/httpx"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/imdb"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/omdb"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/tmdb"
	app "github.com/sureshchouksey8/MOVIERATINGS/internal/app"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/config"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	writeMargin               = 2 * time.Second
	nanosecondsPerMillisecond = 1e6

	logMaxSizeMB   = 50
	logMaxBackups  = 5
	logMaxAgeDays  = 14
	userAgent      = "Mozilla/5.0 (compatible; movieratings/1.0)"
	retryBaseDelay = 200 * time.Millisecond
)

func main() {
	// Only the custom registry is served.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(
		logger.WithJSON(cfg.LogJSON),
		logger.WithFile(cfg.LogFile, logMaxSizeMB, logMaxBackups, logMaxAgeDays),
	); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logs: " + err.Error() + "\n")
		}
	}()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server exited", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	srv, svc, err := newServer(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	go startSystemMetricsUpdater(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			svc.Stop(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	svc.Stop(shutdownCtx)

	log.Info(ctx, "server stopped")
	return nil
}

// newServer wires the upstream adapters, the lookup service and the HTTP
// routes. The service is returned unstarted.
func newServer(ctx context.Context, cfg *config.Config, log logger.Logger) (*http.Server, *app.Service, error) {
	client := func(provider string) *httpx.Client {
		return httpx.New(provider,
			httpx.WithTimeout(cfg.UpstreamTimeout()),
			httpx.WithRetry(cfg.UpstreamRetryMax, retryBaseDelay),
			httpx.WithUserAgent(userAgent),
		)
	}

	catalog := tmdb.New(cfg.TMDBKey, cfg.TMDBBaseURL, client("tmdb"))
	if !catalog.Configured() {
		log.Warn(ctx, "tmdb_key not set; search and details will fail")
	}

	detailsTimeout, clamped := detailsBudget(cfg)
	if clamped {
		log.Warn(ctx, "details_timeout_ms must stay below the write timeout; clamping",
			logger.Int("details_timeout_ms", cfg.DetailsTimeoutMS),
			logger.Duration("effective", detailsTimeout))
	}

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithCatalog(catalog),
		app.WithSearchLimit(cfg.SearchLimit),
		app.WithDetailsTimeout(detailsTimeout),
		app.WithImageBaseURL(cfg.TMDBImageBaseURL),
		app.WithCache(cfg.CacheSize, cfg.SearchCacheTTL(), cfg.DetailsCacheTTL()),
		app.WithPrefetch(cfg.PrefetchTopN, cfg.PrefetchWorkers, cfg.PrefetchQueueSize),
	}
	if cfg.OMDbKey != "" {
		opts = append(opts, app.WithRatingsClient(omdb.New(cfg.OMDbKey, cfg.OMDbBaseURL, client("omdb"))))
	} else {
		log.Warn(ctx, "omdb_key not set; ratings come from the scrape fallback only")
	}
	if cfg.ScrapeFallback {
		opts = append(opts, app.WithScrapeFallback(imdb.New(cfg.IMDbBaseURL, client("imdb"), log.Named("imdb"))))
	}
	svc := app.New(opts...)

	apiServer, err := api.NewServer(svc, svc,
		api.WithLogger(log.Named("api")),
		api.WithRateLimit(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		api.WithImageProxyHosts(cfg.ImageProxyHosts),
		api.WithImageClient(client("image")),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("build api: %w", err)
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	apiServer.Register(ctx, mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}, svc, nil
}

// detailsBudget keeps detail lookups inside the server write timeout.
func detailsBudget(cfg *config.Config) (time.Duration, bool) {
	d := cfg.DetailsTimeout()
	if d >= writeTimeout-writeMargin {
		return writeTimeout - writeMargin, true
	}
	return d, false
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
