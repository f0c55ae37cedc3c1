// Package metrics exposes the Prometheus collectors for the auth service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Auth metrics
	LoginsTotal         *prometheus.CounterVec
	TokensIssuedTotal   *prometheus.CounterVec
	GateRejectionsTotal *prometheus.CounterVec

	// Password reset metrics
	ResetRequestsTotal *prometheus.CounterVec
	ResetConsumedTotal *prometheus.CounterVec
	SweepDeletedTotal  prometheus.Counter
	SweepErrorsTotal   prometheus.Counter

	// Middleware metrics
	RateLimitedTotal *prometheus.CounterVec
	CacheResultTotal *prometheus.CounterVec
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coffee_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coffee_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coffee_auth_logins_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		TokensIssuedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coffee_auth_tokens_issued_total",
				Help: "Signed tokens by kind",
			},
			[]string{"kind"},
		),
		GateRejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coffee_auth_gate_rejections_total",
				Help: "Requests rejected by the access gate",
			},
			[]string{"status"},
		),
		ResetRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coffee_password_reset_requests_total",
				Help: "Password reset codes requested by result",
			},
			[]string{"result"},
		),
		ResetConsumedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coffee_password_reset_consumed_total",
				Help: "Password reset code submissions by result",
			},
			[]string{"result"},
		),
		SweepDeletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coffee_password_reset_swept_total",
			Help: "Expired password reset records removed by the sweep",
		}),
		SweepErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coffee_password_reset_sweep_errors_total",
			Help: "Failed sweep runs",
		}),
		RateLimitedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coffee_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"path"},
		),
		CacheResultTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coffee_response_cache_total",
				Help: "Response cache lookups by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LoginsTotal,
		m.TokensIssuedTotal,
		m.GateRejectionsTotal,
		m.ResetRequestsTotal,
		m.ResetConsumedTotal,
		m.SweepDeletedTotal,
		m.SweepErrorsTotal,
		m.RateLimitedTotal,
		m.CacheResultTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
