package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/talesforge/talesforge/pkg/errcodes"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	FallbackReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallback_reads_total",
			Help: "Reads served from the JSON snapshot instead of the database",
		},
		[]string{"collection", "outcome"}, // outcome: served, missing
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	DatabaseBusyRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_busy_retries_total",
			Help: "Statements retried after SQLite reported the database busy or locked",
		},
		[]string{"operation"},
	)

	UploadsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_stored_total",
			Help: "Uploaded files written to disk",
		},
		[]string{"mime"},
	)
)

// RecordRequest records one finished HTTP request.
func RecordRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFallbackRead records a read that bypassed the database.
func RecordFallbackRead(collection string, served bool) {
	outcome := "served"
	if !served {
		outcome = "missing"
	}
	FallbackReads.WithLabelValues(collection, outcome).Inc()
}

// Middleware records request counts and latency keyed by the matched route
// pattern, so /api/chapters/:slug is one series regardless of the slug.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				// The error handler runs after us and writes the response.
				status = errorStatus(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			RecordRequest(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

func errorStatus(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	var e *errcodes.Error
	if errors.As(err, &e) {
		return e.HTTPCode
	}
	return http.StatusInternalServerError
}
