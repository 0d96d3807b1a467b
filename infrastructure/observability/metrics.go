package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	Mutations *prometheus.CounterVec

	// Persistence metrics
	Persists        *prometheus.CounterVec
	PersistDuration *prometheus.HistogramVec
	QueueDepth      *prometheus.GaugeVec

	// Realtime metrics
	WSClients prometheus.Gauge
}

// NewCollector creates a new metrics collector with the given namespace.
// Each collector owns its registry, so tests can create as many as they like.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	mutations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_mutations_total",
			Help:      "Total number of applied record mutations",
		},
		[]string{"dataset", "op"},
	)

	persists := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_requests_total",
			Help:      "Total number of snapshot writes",
		},
		[]string{"dataset", "status"},
	)

	persistDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persist_duration_seconds",
			Help:      "Snapshot write duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"dataset"},
	)

	queueDepth := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "persist_queue_depth",
			Help:      "Snapshot writes waiting in the per-dataset queue",
		},
		[]string{"dataset"},
	)

	wsClients := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected websocket clients",
		},
	)

	// Register all metrics with the registry
	registry.MustRegister(
		httpRequests,
		httpDuration,
		mutations,
		persists,
		persistDuration,
		queueDepth,
		wsClients,
	)

	return &Collector{
		registry:        registry,
		HTTPRequests:    httpRequests,
		HTTPDuration:    httpDuration,
		Mutations:       mutations,
		Persists:        persists,
		PersistDuration: persistDuration,
		QueueDepth:      queueDepth,
		WSClients:       wsClients,
	}
}

// Registry exposes the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// RecordMutation implements ports.Metrics
func (c *Collector) RecordMutation(dataset, op string) {
	c.Mutations.WithLabelValues(dataset, op).Inc()
}

// RecordPersist implements ports.Metrics
func (c *Collector) RecordPersist(dataset, status string, duration time.Duration) {
	c.Persists.WithLabelValues(dataset, status).Inc()
	c.PersistDuration.WithLabelValues(dataset).Observe(duration.Seconds())
}

// SetQueueDepth implements ports.Metrics
func (c *Collector) SetQueueDepth(dataset string, depth int) {
	c.QueueDepth.WithLabelValues(dataset).Set(float64(depth))
}

// ClientConnected and ClientDisconnected track websocket subscribers.
func (c *Collector) ClientConnected()    { c.WSClients.Inc() }
func (c *Collector) ClientDisconnected() { c.WSClients.Dec() }
