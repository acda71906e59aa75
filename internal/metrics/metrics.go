package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	registry           *prometheus.Registry
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	transactionChanges *prometheus.CounterVec
	summaryRequests    *prometheus.CounterVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Collector{
		registry: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finledger_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finledger_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transactionChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finledger_transaction_changes_total",
			Help: "Committed transaction changes by kind",
		}, []string{"kind"}),
		summaryRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finledger_summary_requests_total",
			Help: "Summary aggregations served by type",
		}, []string{"type"}),
	}
}

func (c *Collector) ObserveRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordTransactionChange(kind string) {
	c.transactionChanges.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordSummary(summaryType string) {
	c.summaryRequests.WithLabelValues(summaryType).Inc()
}

// TrackConnections exposes the live websocket client count.
func (c *Collector) TrackConnections(count func() int) {
	promauto.With(c.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "finledger_websocket_connections",
		Help: "Open transaction feed connections",
	}, func() float64 { return float64(count()) })
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
