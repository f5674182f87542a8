// Package metrics provides Prometheus metrics for dm-server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dm",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dm",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// AuthAttempts counts registrations and logins by outcome.
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dm",
			Name:      "auth_attempts_total",
			Help:      "Total registration and login attempts",
		},
		[]string{"kind", "outcome"},
	)

	// MessagesSent counts stored messages.
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dm",
			Name:      "messages_sent_total",
			Help:      "Total number of messages sent",
		},
		[]string{"reply"},
	)

	// MessagesDeleted counts removed messages by how they were removed.
	MessagesDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dm",
			Name:      "messages_deleted_total",
			Help:      "Total number of messages deleted",
		},
		[]string{"reason"},
	)

	// ConversationsCreated counts conversations opened by a first message.
	ConversationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dm",
			Name:      "conversations_created_total",
			Help:      "Total conversations created",
		},
	)

	// ConversationsDeleted counts deleted conversations.
	ConversationsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dm",
			Name:      "conversations_deleted_total",
			Help:      "Total conversations deleted",
		},
	)

	// OrphansRemoved counts records removed by the orphan sweep.
	OrphansRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dm",
			Name:      "orphan_sweep_removed_total",
			Help:      "Records removed by the orphan sweep",
		},
		[]string{"kind"},
	)

	// JobDuration tracks background job runs by outcome.
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dm",
			Name:      "job_duration_seconds",
			Help:      "Background job duration",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"job", "status"},
	)
)

// RecordRequest records one served HTTP request.
func RecordRequest(method, endpoint, status string, seconds float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// RecordAuth records a registration or login outcome.
func RecordAuth(kind, outcome string) {
	AuthAttempts.WithLabelValues(kind, outcome).Inc()
}

// RecordMessageSent records a stored message.
func RecordMessageSent(reply, newConversation bool) {
	label := "false"
	if reply {
		label = "true"
	}
	MessagesSent.WithLabelValues(label).Inc()
	if newConversation {
		ConversationsCreated.Inc()
	}
}

// RecordMessagesDeleted records n messages removed for reason.
func RecordMessagesDeleted(reason string, n int64) {
	if n > 0 {
		MessagesDeleted.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordConversationDeleted records a conversation delete and its cascade.
func RecordConversationDeleted(messages int64) {
	ConversationsDeleted.Inc()
	RecordMessagesDeleted("conversation_deleted", messages)
}

// RecordOrphansRemoved records a sweep result.
func RecordOrphansRemoved(kind string, n int64) {
	if n > 0 {
		OrphansRemoved.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordJob records one background job run.
func RecordJob(job, status string, seconds float64) {
	JobDuration.WithLabelValues(job, status).Observe(seconds)
}
