package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "MOVIERATINGS_"
	envConfigPath = envPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MOVIERATINGS_CONFIG is set
//  3. env (prefix MOVIERATINGS_)
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// MOVIERATINGS_TMDB_KEY -> tmdb_key. Underscores are kept to match the flat koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Comma-separated lists from env arrive as a single string.
	if raw, ok := k.Get("image_proxy_hosts").(string); ok {
		if err := k.Set("image_proxy_hosts", splitList(raw)); err != nil {
			return nil, fmt.Errorf("%w: image_proxy_hosts: %w", ErrLoadConfig, err)
		}
	}

	cfg := *New()
	if k.Exists("image_proxy_hosts") {
		// Decoding into a populated slice keeps trailing defaults.
		cfg.ImageProxyHosts = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.UpstreamTimeoutMS <= 0:
		return fmt.Errorf("%w: upstream_timeout_ms must be positive", ErrInvalidConfig)
	case c.DetailsTimeoutMS <= 0:
		return fmt.Errorf("%w: details_timeout_ms must be positive", ErrInvalidConfig)
	case c.UpstreamRetryMax < 0:
		return fmt.Errorf("%w: upstream_retry_max must not be negative", ErrInvalidConfig)
	case c.SearchLimit <= 0:
		return fmt.Errorf("%w: search_limit must be positive", ErrInvalidConfig)
	case c.CacheSize < 0, c.SearchCacheTTLSeconds < 0, c.DetailsCacheTTLSeconds < 0:
		return fmt.Errorf("%w: cache settings must not be negative", ErrInvalidConfig)
	case c.RateLimitPerMinute < 0, c.RateLimitBurst < 0:
		return fmt.Errorf("%w: rate limit settings must not be negative", ErrInvalidConfig)
	case c.PrefetchTopN < 0, c.PrefetchWorkers < 0, c.PrefetchQueueSize < 0:
		return fmt.Errorf("%w: prefetch settings must not be negative", ErrInvalidConfig)
	case c.PrefetchTopN > 0 && (c.PrefetchWorkers == 0 || c.PrefetchQueueSize == 0):
		return fmt.Errorf("%w: prefetch needs workers and a queue", ErrInvalidConfig)
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
