// Package metrics exposes the Prometheus collectors for the API and the
// background workers. Collectors are registered at init time on the default
// registry and served through promhttp.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mela_http_request_duration_seconds",
		Help:    "HTTP request latency by method, route and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	ReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mela_ticket_reservations_total",
		Help: "Ticket reservation outcomes.",
	}, []string{"outcome"})

	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mela_checkouts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})

	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mela_registrations_total",
		Help: "Event registration outcomes.",
	}, []string{"outcome"})

	OrderTotalAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mela_order_total_npr",
		Help:    "Order totals in NPR.",
		Buckets: prometheus.ExponentialBuckets(100, 4, 8),
	})
)

// Middleware records request latency per route. It uses the matched route
// template, not the raw path, to keep label cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
