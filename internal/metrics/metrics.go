package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for derived-data requests
const (
	OutcomeOK       = "ok"
	OutcomeCached   = "cached"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds Prometheus collectors for songpeaks. A nil *Metrics is a no-op.
type Metrics struct {
	registry            *prometheus.Registry
	httpRequestsTotal   *prometheus.CounterVec
	videoRequestsTotal  *prometheus.CounterVec
	suggestionsProduced prometheus.Histogram
	upstreamWarnings    prometheus.Counter
	storeMutationsTotal *prometheus.CounterVec
	derivedCacheEntries prometheus.Gauge
}

// New creates and registers the collectors on a private registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "songpeaks_http_requests_total",
		Help: "Total number of HTTP requests by route and status class",
	}, []string{"route", "status"})
	videoRequestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "songpeaks_video_data_requests_total",
		Help: "Derived video data lookups by outcome",
	}, []string{"outcome"})
	suggestionsProduced := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "songpeaks_suggestions_per_video",
		Help:    "Number of suggested sections produced per lookup",
		Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 7},
	})
	upstreamWarnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "songpeaks_heatmap_warnings_total",
		Help: "Lookups where the heatmap service produced a warning",
	})
	storeMutationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "songpeaks_store_mutations_total",
		Help: "Persisted store mutations by slot and operation",
	}, []string{"slot", "op"})
	derivedCacheEntries := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "songpeaks_video_data_cache_entries",
		Help: "Entries held in the derived video data cache",
	})

	registry.MustRegister(
		httpRequestsTotal,
		videoRequestsTotal,
		suggestionsProduced,
		upstreamWarnings,
		storeMutationsTotal,
		derivedCacheEntries,
	)

	return &Metrics{
		registry:            registry,
		httpRequestsTotal:   httpRequestsTotal,
		videoRequestsTotal:  videoRequestsTotal,
		suggestionsProduced: suggestionsProduced,
		upstreamWarnings:    upstreamWarnings,
		storeMutationsTotal: storeMutationsTotal,
		derivedCacheEntries: derivedCacheEntries,
	}
}

// ObserveHTTP counts a served request
func (m *Metrics) ObserveHTTP(route string, status int) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, statusClass(status)).Inc()
}

// IncVideoRequest counts a derived-data lookup by outcome
func (m *Metrics) IncVideoRequest(outcome string) {
	if m == nil {
		return
	}
	m.videoRequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSuggestions records how many suggestions a lookup produced
func (m *Metrics) ObserveSuggestions(n int) {
	if m == nil {
		return
	}
	m.suggestionsProduced.Observe(float64(n))
}

// IncUpstreamWarning counts a degraded heatmap response
func (m *Metrics) IncUpstreamWarning() {
	if m == nil {
		return
	}
	m.upstreamWarnings.Inc()
}

// IncStoreMutation counts a persisted write to a storage slot
func (m *Metrics) IncStoreMutation(slot, op string) {
	if m == nil {
		return
	}
	m.storeMutationsTotal.WithLabelValues(slot, op).Inc()
}

// SetCacheEntries sets the derived-data cache size gauge
func (m *Metrics) SetCacheEntries(n int) {
	if m == nil {
		return
	}
	m.derivedCacheEntries.Set(float64(n))
}

// Registry exposes the private registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	inner := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		inner.ServeHTTP(w, r)
	})
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
