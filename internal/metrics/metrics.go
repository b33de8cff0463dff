package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingSubmissions counts submit attempts by tour and outcome
	BookingSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookings",
			Name:      "submissions_total",
			Help:      "The total number of booking submissions by outcome",
		},
		[]string{"tour", "outcome"},
	)

	// PendingInsertFailures counts pending-row inserts that failed and were skipped
	PendingInsertFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookings",
			Name:      "pending_insert_failures_total",
			Help:      "The total number of pending reservation inserts that failed",
		},
		[]string{"tour"},
	)

	// AvailabilityFallbacks counts occupancy reads that failed open
	AvailabilityFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "availability",
			Name:      "fallbacks_total",
			Help:      "The total number of occupancy reads served empty after a backend error",
		},
		[]string{"tour"},
	)

	// ExpiredHolds counts stale pending rows flipped to cancelled
	ExpiredHolds = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bookings",
			Name:      "expired_holds_total",
			Help:      "The total number of stale pending reservations cancelled by the sweep",
		},
	)

	// HTTPRequestDuration tracks handler latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// GinMiddleware records HTTPRequestDuration for every routed request.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
