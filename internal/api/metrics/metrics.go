// Package metrics defines all custom Prometheus metrics for the portal. It is
// the single source of truth for metric names, labels, and help strings; the
// promauto registration happens at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// StrapiRequestsTotal counts round-trips to the content backend.
// Labels:
//   - endpoint: logical endpoint name (e.g. "obras", "users_me")
//   - status: HTTP status code, or "network_error"
var StrapiRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "strapi_requests_total",
		Help:      "Total number of requests issued to the content backend.",
	},
	[]string{"endpoint", "status"},
)

// StrapiRequestDuration measures backend round-trip latency.
var StrapiRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "strapi_request_duration_seconds",
		Help:      "Duration of content backend requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ConsultasCreatedTotal counts support inquiries accepted by the backend.
var ConsultasCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consultas_created_total",
		Help:      "Total number of consultas successfully submitted.",
	},
)

// ActivityQueueDepth tracks events pending in each activity dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of events pending in each activity worker channel.",
	},
	[]string{"worker_id"},
)
