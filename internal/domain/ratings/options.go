package ratings

import "github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithScrapeFallback enables the title page scrape tier.
func WithScrapeFallback(s ScrapeFallback) Option {
	return func(r *Resolver) {
		r.scrape = s
	}
}

// WithLogger sets the logger used for swallowed collaborator failures.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}
