package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every exporter self-metric. The scrape pipeline gathers
// from it alongside the per-scrape Pi-hole families.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// Scrape metrics
var (
	ScrapesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "pihole_exporter_scrapes_total",
			Help: "Total number of scrape attempts against Pi-hole",
		},
	)

	ScrapeErrorsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pihole_exporter_scrape_errors_total",
			Help: "Total number of failed scrapes by failure reason",
		},
		[]string{"reason"},
	)

	ScrapeDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pihole_exporter_scrape_duration_seconds",
			Help:    "Duration of the authenticate-fetch-render pipeline in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SessionRenewalsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "pihole_exporter_session_renewals_total",
			Help: "Total number of Pi-hole session re-authentications triggered by expiry",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pihole_exporter_http_requests_total",
			Help: "Total number of HTTP requests served by the exporter",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pihole_exporter_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "pihole_exporter_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Application info
var (
	BuildInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pihole_exporter_build_info",
			Help: "Build information (value is always 1)",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetBuildInfo publishes the build information labels once at startup.
func SetBuildInfo(version, commit, goVersion string) {
	BuildInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
