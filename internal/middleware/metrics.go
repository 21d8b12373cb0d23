package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	wsConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_connections_total",
			Help: "Total number of WebSocket connections",
		},
	)

	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	// Signaling business metrics

	presenceUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_presence_updates_total",
			Help: "Total number of presence status writes",
		},
		[]string{"status"},
	)

	callEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_call_events_total",
			Help: "Total number of call lifecycle events emitted",
		},
		[]string{"phase"},
	)

	membershipSignalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signal_membership_signals_total",
			Help: "Total number of membership change broadcasts",
		},
	)

	droppedNotificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signal_dropped_notifications_total",
			Help: "Total number of notifications dropped because a transport was unavailable",
		},
	)
)

// Metrics returns a Gin middleware that collects Prometheus metrics.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpRequestsInFlight.Inc()

		c.Next()

		httpRequestsInFlight.Dec()
		duration := time.Since(start).Seconds()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// MetricsHandler returns the Prometheus metrics handler for Gin.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func RecordWebSocketConnection() {
	wsConnectionsTotal.Inc()
	wsActiveConnections.Inc()
}

func RecordWebSocketDisconnection() {
	wsActiveConnections.Dec()
}

func RecordPresenceUpdate(status string) {
	presenceUpdatesTotal.WithLabelValues(status).Inc()
}

func RecordCallEvent(phase string) {
	callEventsTotal.WithLabelValues(phase).Inc()
}

func RecordMembershipSignal() {
	membershipSignalsTotal.Inc()
}

func RecordDroppedNotification() {
	droppedNotificationsTotal.Inc()
}
