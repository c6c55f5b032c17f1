package metrics

import (
    "sync"
    "time"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    once sync.Once

    APILatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "stockhistory",
            Subsystem: "api",
            Name:      "latency_seconds",
            Help:      "Latency of market API endpoints",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"endpoint"},
    )

    APIErrors = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "stockhistory",
            Subsystem: "api",
            Name:      "errors_total",
            Help:      "Errors by market API endpoint and kind",
        },
        []string{"endpoint", "kind"},
    )
)

func Register() {
    once.Do(func() {
        prometheus.MustRegister(APILatency, APIErrors)
    })
}

// Observe records the latency of one endpoint call started at start.
func Observe(endpoint string, start time.Time) {
    APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// Fail counts one failed call; kind is "validation", "provider" or "internal".
func Fail(endpoint, kind string) {
    APIErrors.WithLabelValues(endpoint, kind).Inc()
}
