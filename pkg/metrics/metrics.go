// Package metrics holds the Prometheus collectors of the directory service.
// They register with the default registry on import; /metrics serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "directory"

// StatusTransitionsTotal counts moderation status writes.
// Labels:
//   - resource: "service" or "provider"
//   - status: the status written
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of status changes applied to directory entries.",
	},
	[]string{"resource", "status"},
)

// AccountOrphansTotal counts identity records left without a profile because
// the compensating delete failed.
var AccountOrphansTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_orphans_total",
		Help:      "Identity records left without a profile row after a failed compensation.",
	},
)

// LoginAttemptsTotal counts admin login outcomes.
// Label:
//   - result: "success", "invalid", "unknown_identifier", "forbidden" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of admin login attempts, by result.",
	},
	[]string{"result"},
)

// HTTPRequestDuration measures request latency per route pattern.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
