package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors shared by the HTTP layer and
// the outbox worker.
type Metrics struct {
	RequestDuration         *prometheus.HistogramVec
	RequestTotal            *prometheus.CounterVec
	ErrorTotal              *prometheus.CounterVec
	OutboxProcessingLatency prometheus.Histogram
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
}

func New(prefix string) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		ErrorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
		OutboxProcessingLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: prefix + "_outbox_processing_seconds",
				Help: "Duration of outbox batch processing in seconds",
			},
		),
		OutboxEventsProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_outbox_events_processed_total",
				Help: "Total number of outbox events published",
			},
		),
		OutboxEventsFailed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_outbox_events_failed_total",
				Help: "Total number of outbox events that failed to publish",
			},
		),
	}

	prometheus.MustRegister(
		m.RequestDuration,
		m.RequestTotal,
		m.ErrorTotal,
		m.OutboxProcessingLatency,
		m.OutboxEventsProcessed,
		m.OutboxEventsFailed,
	)

	return m
}
