// Package metrics exposes Prometheus counters for the diary client. A
// Collector plugs into the retry engine, the API client and the error
// reporter through their observer hooks.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Goden-Gun/diary-client/pkg/apierr"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Collector owns a private registry so several clients in one process, or
// tests, never collide on metric names.
type Collector struct {
	registry *prometheus.Registry

	// RetriesTotal counts backoff sleeps per error kind
	RetriesTotal *prometheus.CounterVec
	// RequestsTotal counts finished requests per method and outcome
	RequestsTotal *prometheus.CounterVec
	// RequestDuration tracks request latency including retries
	RequestDuration *prometheus.HistogramVec
	// ErrorsTotal counts failed requests per error kind
	ErrorsTotal *prometheus.CounterVec
	// ReportsPublished counts error reports sent to Kafka
	ReportsPublished *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		RetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diary_client_retries_total",
				Help: "Total number of retried attempts",
			},
			[]string{"kind"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diary_client_requests_total",
				Help: "Total number of requests to the diary backend",
			},
			[]string{"method", "outcome"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "diary_client_request_duration_seconds",
				Help:    "Request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diary_client_errors_total",
				Help: "Total number of failed requests by classified kind",
			},
			[]string{"kind"},
		),
		ReportsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diary_client_reports_published_total",
				Help: "Total number of error reports published",
			},
			[]string{"topic", "outcome"},
		),
	}
}

// ObserveRetry implements retry.Observer.
func (c *Collector) ObserveRetry(_ int, _ time.Duration, err error) {
	c.RetriesTotal.WithLabelValues(string(apierr.Classify(err).Kind)).Inc()
}

// ObserveRequest implements api.RequestObserver.
func (c *Collector) ObserveRequest(method, _ string, _ int, duration time.Duration, err error) {
	c.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
	if err == nil {
		c.RequestsTotal.WithLabelValues(method, outcomeSuccess).Inc()
		return
	}
	c.RequestsTotal.WithLabelValues(method, outcomeError).Inc()
	c.ErrorsTotal.WithLabelValues(string(apierr.Classify(err).Kind)).Inc()
}

// ObservePublish implements report.PublishObserver.
func (c *Collector) ObservePublish(topic string, _ time.Duration, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}
	c.ReportsPublished.WithLabelValues(topic, outcome).Inc()
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
