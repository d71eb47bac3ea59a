package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RateMetrics holds the collectors for rate resolution.
// A nil *RateMetrics is valid and records nothing.
type RateMetrics struct {
	ResolutionsTotal        *prometheus.CounterVec
	ResolutionErrorsTotal   *prometheus.CounterVec
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration prometheus.Histogram
	BatchEntriesTotal       *prometheus.CounterVec
}

// NewRateMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer in main
// and a fresh prometheus.NewRegistry() in tests.
func NewRateMetrics(reg prometheus.Registerer) *RateMetrics {
	factory := promauto.With(reg)
	return &RateMetrics{
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_resolutions_total",
				Help: "Successful single-pair rate resolutions by source",
			},
			[]string{"source"},
		),
		ResolutionErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_resolution_errors_total",
				Help: "Failed single-pair rate resolutions by reason",
			},
			[]string{"reason"},
		),
		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_provider_requests_total",
				Help: "Calls to the market rate provider by outcome",
			},
			[]string{"outcome"},
		),
		ProviderRequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fx_provider_request_duration_seconds",
				Help:    "Latency of market rate provider calls",
				Buckets: prometheus.DefBuckets,
			},
		),
		BatchEntriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_batch_entries_total",
				Help: "Batch resolution entries by source",
			},
			[]string{"source"},
		),
	}
}

func (m *RateMetrics) ObserveResolution(source string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(source).Inc()
}

func (m *RateMetrics) ObserveResolutionError(reason string) {
	if m == nil {
		return
	}
	m.ResolutionErrorsTotal.WithLabelValues(reason).Inc()
}

// ObserveProviderCall records one market provider call and its latency.
func (m *RateMetrics) ObserveProviderCall(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequestsTotal.WithLabelValues(outcome).Inc()
	m.ProviderRequestDuration.Observe(elapsed.Seconds())
}

func (m *RateMetrics) ObserveBatchEntry(source string) {
	if m == nil {
		return
	}
	m.BatchEntriesTotal.WithLabelValues(source).Inc()
}
