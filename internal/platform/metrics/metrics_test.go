package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateMetrics_CountsBySource(t *testing.T) {
	m := NewRateMetrics(prometheus.NewRegistry())

	m.ObserveResolution("api")
	m.ObserveResolution("api")
	m.ObserveResolution("fixed")
	m.ObserveBatchEntry("error")
	m.ObserveResolutionError("rate_unavailable")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ResolutionsTotal.WithLabelValues("api")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolutionsTotal.WithLabelValues("fixed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchEntriesTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolutionErrorsTotal.WithLabelValues("rate_unavailable")))
}

func TestRateMetrics_ProviderCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRateMetrics(reg)

	m.ObserveProviderCall("success", 150*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequestsTotal.WithLabelValues("success")))
	count, err := testutil.GatherAndCount(reg, "fx_provider_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRateMetrics_NilIsNoop(t *testing.T) {
	var m *RateMetrics
	assert.NotPanics(t, func() {
		m.ObserveResolution("api")
		m.ObserveResolutionError("x")
		m.ObserveProviderCall("error", time.Second)
		m.ObserveBatchEntry("api")
	})
}
