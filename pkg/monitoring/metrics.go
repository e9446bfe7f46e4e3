package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Authentication metrics
	authAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"method", "status"},
	)

	sessionsIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_issued_total",
			Help: "Total number of session tokens issued",
		},
	)

	sessionsSweptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_swept_total",
			Help: "Total number of expired sessions removed by the lazy sweep",
		},
	)

	// Workflow metrics
	notificationsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_emitted_total",
			Help: "Total number of notifications written",
		},
		[]string{"trigger"},
	)

	assignmentStatusUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_status_updates_total",
			Help: "Total number of assignment status transitions",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		authAttemptsTotal,
		sessionsIssuedTotal,
		sessionsSweptTotal,
		notificationsEmittedTotal,
		assignmentStatusUpdatesTotal,
	)
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	httpRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordAuthAttempt records an authentication attempt
func RecordAuthAttempt(method, status string) {
	authAttemptsTotal.WithLabelValues(method, status).Inc()
}

// RecordSessionIssued records a session issuance
func RecordSessionIssued() {
	sessionsIssuedTotal.Inc()
}

// RecordSessionsSwept records expired sessions removed by the lazy sweep
func RecordSessionsSwept(count int) {
	sessionsSweptTotal.Add(float64(count))
}

// RecordNotificationEmitted records a written notification by trigger kind
func RecordNotificationEmitted(trigger string) {
	notificationsEmittedTotal.WithLabelValues(trigger).Inc()
}

// RecordStatusUpdate records an assignment status transition
func RecordStatusUpdate(status string) {
	assignmentStatusUpdatesTotal.WithLabelValues(status).Inc()
}

// Handler returns the prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
