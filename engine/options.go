package engine

import "log/slog"

// ============================================================================
// ENGINE OPTIONS — Functional options for Sample() and Render()
// ============================================================================

// Default sampler tuning. The resolution matches a sweep of i = 0..2000.
const (
	DefaultResolution             = 2001
	DefaultDiscontinuityThreshold = 100.0
	DefaultClamp                  = 1e6
)

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Logger    *slog.Logger
	Metrics   *Metrics
	Threshold float64 // max |Δy| between consecutive evaluated points
	Clamp     float64 // max |y| drawn
}

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithMetrics records sample and render outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.Metrics = m
	}
}

// WithDiscontinuityThreshold overrides the jump size that is drawn as a gap.
// Non-positive values are ignored.
func WithDiscontinuityThreshold(t float64) Option {
	return func(c *config) {
		if t > 0 {
			c.Threshold = t
		}
	}
}

// WithClamp overrides the magnitude above which sampled values become gaps.
// Non-positive values are ignored.
func WithClamp(limit float64) Option {
	return func(c *config) {
		if limit > 0 {
			c.Clamp = limit
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Logger:    slog.Default(),
		Threshold: DefaultDiscontinuityThreshold,
		Clamp:     DefaultClamp,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
