package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for Aggregate()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	MaxRows int // cap on result rows when the SQL carries no LIMIT
}

// WithMaxRows overrides the default result-row cap.
// Zero disables the cap entirely.
func WithMaxRows(n int) Option {
	return func(c *config) {
		c.MaxRows = n
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		MaxRows: DefaultMaxRows,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
