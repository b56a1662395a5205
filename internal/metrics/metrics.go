package metrics

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const divisor = 100

// Metrics defines all Prometheus metrics for the newsletter service.
type Metrics struct {
	Registry *prometheus.Registry

	// RED (Rate, Errors, Duration) for HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestDuration  *prometheus.HistogramVec

	// Business metrics
	SubscriptionsCreated prometheus.Counter

	// Database
	DBInsertDuration prometheus.Histogram

	// System metrics
	ServiceUptime prometheus.Gauge

	// Errors metrics
	BusinessErrors  *prometheus.CounterVec
	TechnicalErrors *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics under the given namespace on a
// private registry. Pool statistics are exported when db is not nil.
func NewMetrics(namespace string, db *sql.DB, dbName string) *Metrics {
	registry := prometheus.NewRegistry()
	errorLabels := []string{"error_type", "severity"}
	m := &Metrics{
		Registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests total",
			},
			[]string{"method", "endpoint", "status_class"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "In-flight HTTP requests",
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		SubscriptionsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscriptions_created_total",
				Help:      "Total subscribers saved",
			},
		),

		DBInsertDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_insert_duration_seconds",
				Help:      "Duration of subscriber inserts",
				Buckets:   prometheus.DefBuckets,
			},
		),

		ServiceUptime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_start_time_seconds",
				Help:      "Unix time the service started",
			},
		),

		BusinessErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "business_errors_total",
				Help:      "Total business errors",
			},
			errorLabels,
		),

		TechnicalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "technical_errors_total",
				Help:      "Total technical errors",
			},
			errorLabels,
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestsInFlight,
		m.HTTPRequestDuration,
		m.SubscriptionsCreated,
		m.DBInsertDuration,
		m.ServiceUptime,
		m.BusinessErrors,
		m.TechnicalErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if db != nil {
		registry.MustRegister(collectors.NewDBStatsCollector(db, dbName))
	}

	m.ServiceUptime.SetToCurrentTime()

	return m
}

// Handler serves the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// HTTPMiddleware instruments Gin HTTP handlers for RED metrics.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		c.Next()
		m.HTTPRequestsInFlight.Dec()

		dur := time.Since(start).Seconds()
		status := c.Writer.Status()
		statusClass := fmt.Sprintf("%dxx", status/divisor)

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, c.FullPath(), statusClass).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, c.FullPath()).Observe(dur)
	}
}

// ObserveInsert records the duration of one insert and, on failure, a
// technical error.
func (m *Metrics) ObserveInsert(dur time.Duration, err error) {
	m.DBInsertDuration.Observe(dur.Seconds())
	if err != nil {
		m.TechnicalErrors.WithLabelValues("db_insert_error", "critical").Inc()
	}
}

func (m *Metrics) RecordValidationFailure(field string) {
	m.BusinessErrors.WithLabelValues("invalid_"+field, "warning").Inc()
}
