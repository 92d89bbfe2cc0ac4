package compute

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records compute-service calls.
type Metrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them on reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mathviz",
			Subsystem: "compute",
			Name:      "requests_total",
			Help:      "Compute-service requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mathviz",
			Subsystem: "compute",
			Name:      "request_duration_seconds",
			Help:      "Compute-service request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Latency)
	}
	return m
}

func (m *Metrics) observe(endpoint string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(endpoint, outcome(err)).Inc()
	m.Latency.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsTransient(err):
		return "transient_error"
	default:
		return "fatal_error"
	}
}
