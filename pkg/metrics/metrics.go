package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	ActiveBookingsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_bookings_total",
			Help: "Current number of bookings in a non-terminal state",
		},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Total number of booking transitions by resulting status",
		},
		[]string{"status"},
	)

	LocationUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "location_updates_total",
			Help: "Total number of accepted location updates",
		},
	)

	// Notification hub metrics
	HubSubscriptionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_subscriptions_total",
			Help: "Current number of active hub subscriptions",
		},
	)

	HubQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_queue_depth",
			Help: "Events currently waiting for delivery across all bookings",
		},
	)

	HubEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_events_published_total",
			Help: "Total number of events accepted by the hub",
		},
		[]string{"kind"},
	)

	HubEventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_events_delivered_total",
			Help: "Total number of per-subscriber deliveries",
		},
		[]string{"kind", "role", "status"},
	)

	HubEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_events_dropped_total",
			Help: "Location events dropped because a booking queue was full",
		},
	)

	HubDeliveryRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_delivery_retries_total",
			Help: "Retries of failed status event deliveries",
		},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"exchange", "status"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordDelivery records the outcome of one per-subscriber delivery.
func RecordDelivery(kind, role string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	HubEventsDelivered.WithLabelValues(kind, role, status).Inc()
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(exchange string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMQMessagesPublished.WithLabelValues(exchange, status).Inc()
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseQueriesTotal.WithLabelValues(operation, status).Inc()
}
