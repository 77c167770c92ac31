// Package metrics defines the Prometheus instrumentation shared across the
// adapters and background workers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector the service exports. One instance is created
// at composition time and handed to the adapters that record into it.
type Metrics struct {
	WebhooksReceived  *prometheus.CounterVec
	WebhooksProcessed *prometheus.CounterVec
	WebhooksFailed    *prometheus.CounterVec

	TaskAttempts *prometheus.CounterVec
	TaskFailures *prometheus.CounterVec

	CarrierRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WebhooksReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_webhooks_received_total",
			Help: "Inbound webhooks durably recorded, by source.",
		}, []string{"source"}),
		WebhooksProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_webhooks_processed_total",
			Help: "Webhooks whose effects were applied, by source.",
		}, []string{"source"}),
		WebhooksFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_webhooks_failed_total",
			Help: "Webhooks that ended in failed status, by source.",
		}, []string{"source"}),
		TaskAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_task_attempts_total",
			Help: "Queue task execution attempts, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		TaskFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_task_terminal_failures_total",
			Help: "Queue tasks that exhausted their attempts, by kind.",
		}, []string{"kind"}),
		CarrierRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fulfillment_carrier_request_duration_seconds",
			Help:    "Carrier API request latency, by carrier and operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"carrier", "op"}),
	}

	reg.MustRegister(
		m.WebhooksReceived,
		m.WebhooksProcessed,
		m.WebhooksFailed,
		m.TaskAttempts,
		m.TaskFailures,
		m.CarrierRequestDuration,
	)
	return m
}
