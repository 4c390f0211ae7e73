// Package metrics defines the custom Prometheus metrics exposed on /metrics.
// It is the single source of truth for metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// WebhookEventsTotal counts webhook deliveries that completed processing.
// Labels:
//   - type: gateway event type (e.g. "checkout.session.completed")
//   - result: "applied", "duplicate", "ignored", or "error"
var WebhookEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Total number of webhook deliveries processed, by event type and result.",
	},
	[]string{"type", "result"},
)

// WebhookSignatureFailuresTotal counts deliveries rejected before dispatch.
var WebhookSignatureFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_signature_failures_total",
		Help:      "Total number of webhook deliveries rejected for a bad signature.",
	},
)

// OrdersCreatedTotal counts orders created at checkout.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created at checkout.",
	},
)

// OrderTransitionsTotal counts applied order status transitions.
// Labels:
//   - status: the new order status
//   - actor: "admin" or "gateway"
var OrderTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Total number of applied order status transitions, by status and actor.",
	},
	[]string{"status", "actor"},
)
