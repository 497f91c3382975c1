// Package metrics holds the Prometheus collectors of the auth server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Outcome label values for auth operations.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidInput       = "invalid_input"
	OutcomeAlreadyExists      = "already_exists"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeTokenInvalid       = "token_invalid"
	OutcomeTokenExpired       = "token_expired"
	OutcomeInternal           = "internal"
)

// Metrics groups the collectors recorded by services and transports.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	AuthOutcomes *prometheus.CounterVec
	HashDuration *prometheus.HistogramVec
	Requests     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// Panics if registration fails (prometheus convention).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuthOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_auth_operations_total",
				Help: "Total number of auth operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		HashDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gophauth_password_hash_duration_seconds",
				Help:    "Time spent hashing or verifying passwords",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_requests_total",
				Help: "Total number of requests by transport, route and status",
			},
			[]string{"transport", "route", "status"},
		),
	}

	reg.MustRegister(m.AuthOutcomes, m.HashDuration, m.Requests)
	return m
}

// NewRegistry returns a registry preloaded with the Go and process
// collectors, ready to be served on /metrics.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func (m *Metrics) RecordAuth(operation, outcome string) {
	if m == nil {
		return
	}
	m.AuthOutcomes.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordHash(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.HashDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) RecordRequest(transport, route, status string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(transport, route, status).Inc()
}
