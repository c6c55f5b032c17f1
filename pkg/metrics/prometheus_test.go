package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsProviderRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(WithRegisterer(reg))

	r.RecordProviderRequest("yahoo", "search", "ok")
	r.RecordProviderRequest("yahoo", "search", "ok")
	r.RecordProviderRequest("yahoo", "historical", "error")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.providerRequests.WithLabelValues("yahoo", "search", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.providerRequests.WithLabelValues("yahoo", "historical", "error")))
}

func TestRecorderRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(WithRegisterer(reg), WithNamespace("test"))
	r.RecordError("provider")
	r.RecordLatency("search", 0.2)
	r.RecordBars("AAPL", 21)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["test_errors_total"])
	assert.True(t, names["test_operation_duration_seconds"])
	assert.True(t, names["test_history_bars"])
}
