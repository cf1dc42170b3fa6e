package trailer

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithWeights overrides the ranking weights. Non-positive values are ignored.
func WithWeights(official, officialName, trailerCategory int) Option {
	return func(s *Selector) {
		if official > 0 {
			s.weights.official = official
		}
		if officialName > 0 {
			s.weights.officialName = officialName
		}
		if trailerCategory > 0 {
			s.weights.trailerCategory = trailerCategory
		}
	}
}

// WithBaseURL points playback and embed URLs at another host, e.g. a
// privacy-enhanced embed domain.
func WithBaseURL(base string) Option {
	return func(s *Selector) {
		if base != "" {
			s.baseURL = base
		}
	}
}
