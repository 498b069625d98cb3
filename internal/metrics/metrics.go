package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "humblebot_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "humblebot_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Session metrics
	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "humblebot_messages_sent_total",
			Help: "Total user messages accepted by a session",
		},
	)

	SendsIgnored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "humblebot_sends_ignored_total",
			Help: "Total sends dropped without a state change",
		},
		[]string{"reason"}, // "blank", "busy", "closed"
	)

	LateResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "humblebot_late_results_total",
			Help: "Backend results that resolved after a clear or close",
		},
		[]string{"action"}, // "appended", "dropped"
	)

	ActiveSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "humblebot_active_subscribers",
			Help: "Currently subscribed session observers",
		},
	)

	// Backend metrics
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "humblebot_backend_requests_total",
			Help: "Total backend completions",
		},
		[]string{"backend", "outcome"}, // outcome: "success", "failure"
	)

	BackendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "humblebot_backend_latency_seconds",
			Help:    "Backend completion latency",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"backend"},
	)
)
