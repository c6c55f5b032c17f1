package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Option configures Recorder.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	namespace  string
}

// WithRegisterer registers collectors on reg instead of the default registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithNamespace overrides the metric name prefix.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerRequests *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	barsReturned     *prometheus.HistogramVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New(opts ...Option) *Recorder {
	o := &options{registerer: prometheus.DefaultRegisterer, namespace: "stockhistory"}
	for _, opt := range opts {
		opt(o)
	}
	factory := promauto.With(o.registerer)

	return &Recorder{
		providerRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: o.namespace,
				Name:      "provider_requests_total",
				Help:      "Total number of market data provider calls by outcome",
			},
			[]string{"provider", "operation", "outcome"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: o.namespace,
				Name:      "errors_total",
				Help:      "Total number of errors encountered",
			},
			[]string{"type"},
		),
		barsReturned: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: o.namespace,
				Name:      "history_bars",
				Help:      "Number of bars returned per history query",
				Buckets:   []float64{0, 5, 22, 66, 132, 252, 504, 1260, 2520},
			},
			[]string{"symbol"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: o.namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordProviderRequest counts one provider call; outcome is "ok" or "error".
func (r *Recorder) RecordProviderRequest(provider, op, outcome string) {
	r.providerRequests.WithLabelValues(provider, op, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordBars records how many bars a history query produced.
func (r *Recorder) RecordBars(symbol string, n int) {
	r.barsReturned.WithLabelValues(symbol).Observe(float64(n))
}

// Nop discards all measurements.
type Nop struct{}

func (Nop) RecordProviderRequest(string, string, string) {}
func (Nop) RecordError(string)                           {}
func (Nop) RecordLatency(string, float64)                {}
func (Nop) RecordBars(string, int)                       {}
