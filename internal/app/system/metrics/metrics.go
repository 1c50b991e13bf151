// Package metrics defines the Prometheus counters the API exposes on
// /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campusride"

var (
	// OTPIssued counts issue attempts by result (sent, throttled, failed).
	OTPIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "One-time codes issued, by result.",
	}, []string{"result"})

	// OTPVerified counts verification attempts by result.
	OTPVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verified_total",
		Help:      "One-time code verifications, by result.",
	}, []string{"result"})

	// Logins counts login attempts by result.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts, by result.",
	}, []string{"result"})

	// RidesPosted counts rides created.
	RidesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rides_posted_total",
		Help:      "Rides posted.",
	})

	// Bookings counts booking attempts by result (booked, conflict, not_found, error).
	Bookings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Ride booking attempts, by result.",
	}, []string{"result"})

	// UpstreamErrors counts collaborator failures by collaborator (mail, maps, broker).
	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Failed calls to outside services.",
	}, []string{"upstream"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
