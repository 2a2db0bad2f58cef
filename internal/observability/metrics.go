package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kjstillabower/climate-trends-service/internal/traffic"
)

// ServiceName identifies this service in logs and health responses.
const ServiceName = "climate-trends-service"

// Resolution kinds for DatasetResolutionsTotal.
const (
	ResolutionExact = "exact"
	ResolutionFuzzy = "fuzzy"
	ResolutionMiss  = "miss"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation.
	HTTPRequestsInFlight prometheus.Gauge

	// How city queries resolved to files. Watch for: high fuzzy/miss share (front end and
	// data directory out of sync).
	DatasetResolutionsTotal *prometheus.CounterVec

	// CSV load + normalize time. Watch for: large files, slow disks.
	DatasetLoadDuration *prometheus.HistogramVec

	// Columns filled with synthetic defaults. Watch for: datasets missing Year/Temperature.
	SyntheticColumnsTotal *prometheus.CounterVec

	// Weather data lookups by outcome (ok, invalid, not_found, error). Watch for: error share.
	WeatherDataRequestsTotal *prometheus.CounterVec

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter

	rateLimitGaugesOnce sync.Once
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	DatasetResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datasetResolutionsTotal",
			Help: "City to dataset file resolutions by match kind (exact, fuzzy, miss)",
		},
		[]string{"match"},
	)
	DatasetLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datasetLoadDurationSeconds",
			Help:    "Time to read and normalize a dataset CSV",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"status"},
	)
	SyntheticColumnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syntheticColumnsTotal",
			Help: "Dataset columns filled with defaults (year, temperature_fallback, temperature)",
		},
		[]string{"column"},
	)
	WeatherDataRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherDataRequestsTotal",
			Help: "Weather data lookups by outcome",
		},
		[]string{"outcome"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		DatasetResolutionsTotal, DatasetLoadDuration, SyntheticColumnsTotal,
		WeatherDataRequestsTotal,
		RateLimitDeniedTotal,
	)
}

// RegisterRateLimitGauges registers load and rejects gauges for the rate-limited path.
// Call from main after config load with the health overload window.
func RegisterRateLimitGauges(window time.Duration) {
	rateLimitGaugesOnce.Do(func() {
		registry.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRequestsInWindow",
					Help: "Requests hitting rate-limited path in sliding window; load/capacity planning",
				},
				func() float64 { return float64(traffic.RequestCount(window)) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "rateLimitRejectsInWindow",
					Help: "429 responses in sliding window; are we rejecting requests",
				},
				func() float64 { return float64(traffic.DenialCount(window)) },
			),
		)
	})
}

// RecordResolution counts how a city query resolved.
func RecordResolution(kind string) {
	DatasetResolutionsTotal.WithLabelValues(kind).Inc()
}

// RecordDatasetLoad observes a dataset load; ok reports whether it succeeded.
func RecordDatasetLoad(d time.Duration, ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}
	DatasetLoadDuration.WithLabelValues(status).Observe(d.Seconds())
}

// RecordSyntheticColumn counts a column filled with defaults.
func RecordSyntheticColumn(column string) {
	SyntheticColumnsTotal.WithLabelValues(column).Inc()
}

// RecordWeatherDataOutcome counts a weather data lookup by outcome.
func RecordWeatherDataOutcome(outcome string) {
	WeatherDataRequestsTotal.WithLabelValues(outcome).Inc()
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
