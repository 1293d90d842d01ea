// Package metrics defines the custom Prometheus metrics of the marketplace
// API: per-route request counters recorded by the Metrics middleware, and
// domain counters for what the router can not see on its own.
//
// The metrics are registered with the default registry at package init via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "missing_token", "malformed_header", "invalid_token",
//     "expired_token", "user_not_found" or "lookup_error"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the authentication middleware.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "failure" or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ErrorResponsesTotal counts error responses rendered by the error handler.
// Label:
//   - kind: the error kind (e.g. "forbidden", "not_found", "internal")
var ErrorResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "error_responses_total",
		Help:      "Total number of error responses, by error kind.",
	},
	[]string{"kind"},
)

// ResourcesCreatedTotal counts successfully created resources.
// Label:
//   - resource: "user", "accommodation", "booking", "review", "message" or "wishlist_item"
var ResourcesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resources_created_total",
		Help:      "Total number of resources created, by resource type.",
	},
	[]string{"resource"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method: HTTP method
//   - route: the matched route pattern (e.g. "/bookings/:id"), not the raw path
//   - code: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status code.",
	},
	[]string{"method", "route", "code"},
)

// HTTPRequestDuration measures request latency by route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method and route.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method", "route"},
)
