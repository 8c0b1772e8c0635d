// Package metrics defines and registers all custom Prometheus metrics for
// the booking API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// AppointmentsCreatedTotal counts newly scheduled appointments.
var AppointmentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Total number of appointments created.",
	},
)

// AppointmentTransitionsTotal counts lifecycle transitions applied to
// appointments.
// Label:
//   - status: the resulting appointment status (e.g. "cancelled")
var AppointmentTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointment_transitions_total",
		Help:      "Total number of appointment status transitions, by resulting status.",
	},
	[]string{"status"},
)

// CallbacksTotal counts payment processor callbacks after processing.
// Label:
//   - result: "ok" or "error"
var CallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_callbacks_total",
		Help:      "Total number of payment processor callbacks processed, by result.",
	},
	[]string{"result"},
)

// WebsocketConnections tracks currently registered realtime connections.
var WebsocketConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_connections",
		Help:      "Current number of registered websocket connections.",
	},
)

// NotificationsSentTotal counts events delivered to realtime channels.
// Label:
//   - type: "message" or "notification"
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of events delivered to realtime channels, by event type.",
	},
	[]string{"type"},
)
