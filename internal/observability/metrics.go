// README: Prometheus counters for the simulated ride and order flows.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gotawee"

var (
	RideTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "ride_transitions_total", Help: "Ride status transitions by target status"},
		[]string{"status"},
	)
	RideBookings = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "ride_bookings_total", Help: "Rides booked by vehicle class"},
		[]string{"vehicle_class"},
	)
	RideCancellations = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "ride_cancellations_total", Help: "Rides cancelled before completion"})
	RideTicks         = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "ride_ticks_total", Help: "Driver movement ticks processed"})

	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "persistence_failures_total", Help: "Failed reads and writes of the current ride record"},
		[]string{"op"},
	)

	OrderStepChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "order_step_changes_total", Help: "Order tracker step changes by target step"},
		[]string{"step"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
