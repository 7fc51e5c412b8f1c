package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyperscout_api_requests_total",
			Help: "Total number of Hyperliquid info API requests",
		},
		[]string{"endpoint", "status"}, // portfolio/clearinghouseState, success/error
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hyperscout_api_request_duration_seconds",
			Help:    "Duration of Hyperliquid info API requests",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"endpoint"},
	)

	// Analysis metrics
	WalletsAnalyzed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyperscout_wallets_analyzed_total",
			Help: "Total number of wallets analyzed",
		},
		[]string{"outcome"}, // computed, insufficient_history, zero_equity, transfer_overflow, parse_error, fetch_error
	)

	HyperScrapersFlagged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hyperscout_hyper_scrapers_flagged_total",
			Help: "Total number of wallets flagged as hyper scrapers",
		},
	)

	WalletsRanked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hyperscout_wallets_ranked",
			Help: "Number of wallets surviving the ranking filter in the last run",
		},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hyperscout_run_duration_seconds",
			Help:    "Duration of a full scan run",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
		},
	)

	// Notification metrics
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyperscout_notifications_sent_total",
			Help: "Total number of run notifications sent",
		},
		[]string{"status"}, // success, error
	)

	// Health metrics
	HealthChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyperscout_health_checks_total",
			Help: "Total number of health check requests",
		},
		[]string{"status"},
	)
)

// RecordAPIRequest records one API call outcome and its duration.
func RecordAPIRequest(endpoint, status string, duration time.Duration) {
	APIRequests.WithLabelValues(endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordHealthCheck records a health check request.
func RecordHealthCheck(healthy bool) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}
	HealthChecks.WithLabelValues(status).Inc()
}
