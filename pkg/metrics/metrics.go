// Package metrics exposes the service's Prometheus collectors and the HTTP
// endpoint they are scraped from.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the container of all service collectors.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Unwrap metrics
	UnwrapOperationsTotal *prometheus.CounterVec
	UnwrapDuration        *prometheus.HistogramVec
	ResidueCount          prometheus.Histogram
	ImagePixels           prometheus.Histogram
	FlowTotalCost         prometheus.Gauge
	Augmentations         prometheus.Histogram
	CacheHitsTotal        *prometheus.CounterVec

	// Service info
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// Init registers all collectors under the given namespace/subsystem and makes
// them the process default.
func Init(namespace, subsystem string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		UnwrapOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "unwrap_operations_total",
				Help:      "Total number of unwrap operations",
			},
			[]string{"algorithm", "status"},
		),

		UnwrapDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "unwrap_duration_seconds",
				Help:      "Duration of unwrap operations",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"algorithm"},
		),

		ResidueCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "residue_count",
				Help:      "Number of non-zero residues per unwrapped image",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
			},
		),

		ImagePixels: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "image_pixels",
				Help:      "Pixel count of unwrapped images",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 12),
			},
		),

		FlowTotalCost: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "flow_total_cost",
				Help:      "Total cost of the last solved flow",
			},
		),

		Augmentations: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "flow_augmentations",
				Help:      "Unit augmentations per solve",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
			},
		),

		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_hits_total",
				Help:      "Unwrap cache lookups by outcome",
			},
			[]string{"outcome"},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service metadata",
			},
			[]string{"version", "environment"},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the process default metrics, or nil if Init has not run.
func Get() *Metrics {
	return defaultMetrics
}

// RecordUnwrap records one unwrap operation.
func (m *Metrics) RecordUnwrap(algorithm string, ok bool, elapsed time.Duration, pixels, residues, augmentations int, totalCost int64) {
	status := "ok"
	if !ok {
		status = "error"
	}
	m.UnwrapOperationsTotal.WithLabelValues(algorithm, status).Inc()
	m.UnwrapDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	if ok {
		m.ImagePixels.Observe(float64(pixels))
		m.ResidueCount.Observe(float64(residues))
		m.Augmentations.Observe(float64(augmentations))
		m.FlowTotalCost.Set(float64(totalCost))
	}
}

// RecordHTTPRequest records one HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordCacheLookup records a cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheHitsTotal.WithLabelValues(outcome).Inc()
}

// SetServiceInfo publishes version metadata.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Serve starts the Prometheus scrape endpoint on its own port. It blocks, so
// run it in a goroutine.
func Serve(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
