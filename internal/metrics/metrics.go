// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntentMatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "navassist",
		Name:      "intent_matches_total",
		Help:      "Replies generated, by matched intent.",
	}, []string{"intent"})

	Messages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "navassist",
		Name:      "messages_total",
		Help:      "Messages appended to transcripts, by role.",
	}, []string{"role"})

	ReplyLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "navassist",
		Name:      "reply_latency_seconds",
		Help:      "Time from submit to reply, typing delay included.",
		Buckets:   []float64{0.05, 0.25, 0.5, 1, 1.5, 2, 3, 5},
	})

	NavigationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "navassist",
		Name:      "navigation_runs_total",
		Help:      "Simulated navigation runs, by outcome (started, arrived, stopped).",
	}, []string{"outcome"})

	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "navassist",
		Name:      "websocket_connections",
		Help:      "Open chat websocket connections.",
	})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "navassist",
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the per-client rate limiter.",
	})
)
