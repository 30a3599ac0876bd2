package transport

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// #region metrics
// Metrics holds the service's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	inferences *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	confidence prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		inferences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journey_inferences_total",
			Help: "Inference requests by method and result.",
		}, []string{"method", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "journey_inference_duration_seconds",
			Help:    "Inference latency by method.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"method"}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "journey_path_confidence",
			Help:    "Path confidence of decoded journeys.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1},
		}),
	}
	for _, c := range []prometheus.Collector{m.inferences, m.duration, m.confidence} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) observe(method, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.inferences.WithLabelValues(method, result).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) observeConfidence(c float64) {
	if m == nil {
		return
	}
	m.confidence.Observe(c)
}

// #endregion metrics
