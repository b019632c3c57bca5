// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the farmbase server.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmbase_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "farmbase_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// AuthFailuresTotal counts guard rejections by error code.
	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmbase_auth_failures_total",
			Help: "Authorization failures",
		},
		[]string{"code"},
	)

	// LoginsTotal counts login attempts by result.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmbase_logins_total",
			Help: "Login attempts",
		},
		[]string{"result"},
	)

	// CredentialUpgradesTotal counts legacy credential upgrades by result.
	CredentialUpgradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmbase_credential_upgrades_total",
			Help: "Legacy credential upgrades",
		},
		[]string{"result"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "farmbase_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthFailuresTotal,
		LoginsTotal,
		CredentialUpgradesTotal,
		RateLimitRejectedTotal,
	)
}
