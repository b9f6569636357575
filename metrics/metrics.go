// Package metrics provides Prometheus metrics for the ranking API: the
// usual HTTP request counters plus domain counters that surface how often
// the resolution engine had to fall back (region hub fallbacks, lookup
// misses, redirect recovery channels). All metrics register with the default
// registry at package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)

	// RegionFallbackTotal counts region ids that could not resolve to their
	// own ranking, by fallback reason ("hub_table", "unknown").
	RegionFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "region_fallback_total",
			Help: "Region ids resolved through a fallback, by reason",
		},
		[]string{"reason"},
	)

	// LookupMissTotal counts resolver lookups that served a fallback value,
	// by lookup kind ("ranking", "store_view", "clinic_text", ...).
	LookupMissTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_miss_total",
			Help: "Resolver lookups that fell back to a default, by kind",
		},
		[]string{"kind"},
	)

	// RedirectRecoveryTotal counts redirect parameter recoveries by the
	// channel that supplied them ("query", "fragment", "stored", "none").
	RedirectRecoveryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redirect_recovery_total",
			Help: "Redirect parameter recoveries by source channel",
		},
		[]string{"channel"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(RegionFallbackTotal)
	prometheus.MustRegister(LookupMissTotal)
	prometheus.MustRegister(RedirectRecoveryTotal)
}
