package docpipe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by pipelines created with
// WithMetrics. A nil *Metrics records nothing.
type Metrics struct {
	stageComputations *prometheus.CounterVec
	stageFailures     *prometheus.CounterVec
	renderDuration    prometheus.Histogram
	recordsCollected  prometheus.Counter
}

// NewMetrics creates the pipeline collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		stageComputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docpipe",
			Name:      "stage_computations_total",
			Help:      "Number of stage computations started, by stage.",
		}, []string{"stage"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docpipe",
			Name:      "stage_failures_total",
			Help:      "Number of stage computations that failed, by stage.",
		}, []string{"stage"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "docpipe",
			Name:      "render_duration_seconds",
			Help:      "Time spent in the document-rendering engine.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		recordsCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docpipe",
			Name:      "records_collected_total",
			Help:      "Number of records drained from record sources.",
		}),
	}
	for _, c := range []prometheus.Collector{m.stageComputations, m.stageFailures, m.renderDuration, m.recordsCollected} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) computed(s Stage) {
	if m != nil {
		m.stageComputations.WithLabelValues(s.String()).Inc()
	}
}

func (m *Metrics) failed(s Stage) {
	if m != nil {
		m.stageFailures.WithLabelValues(s.String()).Inc()
	}
}

func (m *Metrics) rendered(d time.Duration) {
	if m != nil {
		m.renderDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) collected(n int) {
	if m != nil {
		m.recordsCollected.Add(float64(n))
	}
}
