// Package metrics holds the prometheus collectors for the translation client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Video cache metrics
var (
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signreel_video_cache_hits_total",
			Help: "Preload requests served by an existing cache entry",
		},
	)

	CacheFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signreel_video_cache_fetches_total",
			Help: "Sign video fetches by outcome",
		},
		[]string{"status"}, // "success", "error"
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "signreel_video_cache_entries",
			Help: "Number of sign videos currently cached",
		},
	)
)

// Backend metrics
var (
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signreel_backend_requests_total",
			Help: "Requests to the recognition backend by endpoint and outcome",
		},
		[]string{"endpoint", "status"}, // status: "ok", "status_error", "no_response", "decode_error", "request_error"
	)
)

// Translation metrics
var (
	TranslationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signreel_translations_total",
			Help: "Third-party translations by provider and outcome",
		},
		[]string{"provider", "status"},
	)
)
