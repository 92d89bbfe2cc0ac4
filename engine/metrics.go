package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts sampler sweeps and render outcomes.
type Metrics struct {
	Renders *prometheus.CounterVec
	Sweeps  *prometheus.CounterVec
	Gaps    prometheus.Histogram
}

// NewMetrics creates the engine collectors and registers them on reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mathviz",
			Subsystem: "engine",
			Name:      "renders_total",
			Help:      "Payload renders by domain, type and outcome.",
		}, []string{"domain", "type", "outcome"}),
		Sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mathviz",
			Subsystem: "engine",
			Name:      "sweeps_total",
			Help:      "Sampler sweeps by outcome.",
		}, []string{"outcome"}),
		Gaps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mathviz",
			Subsystem: "engine",
			Name:      "sweep_gap_ratio",
			Help:      "Fraction of sampled points emitted as gaps.",
			Buckets:   []float64{0, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Renders, m.Sweeps, m.Gaps)
	}
	return m
}

func (m *Metrics) observeRender(domain, typ, outcome string) {
	if m == nil {
		return
	}
	m.Renders.WithLabelValues(domain, typ, outcome).Inc()
}

func (m *Metrics) observeSweep(res *SampleResult) {
	if m == nil || res == nil {
		return
	}
	outcome := "ok"
	if res.NoValidPoints {
		outcome = "no_valid_points"
	}
	m.Sweeps.WithLabelValues(outcome).Inc()
	if n := len(res.Points); n > 0 {
		m.Gaps.Observe(float64(res.GapCount) / float64(n))
	}
}
