package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesSent counts messages persisted by SendMessage.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniwiz_messages_sent_total",
		Help: "Total number of chat messages sent",
	})

	// MessagesMarkedRead counts unread to read transitions.
	MessagesMarkedRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniwiz_messages_marked_read_total",
		Help: "Total number of messages marked as read by their receiver",
	})

	// ApplicationsTotal counts application status changes by resulting status.
	ApplicationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniwiz_applications_total",
		Help: "Job application transitions by resulting status",
	}, []string{"status"})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniwiz_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// WebSocketConnections is the number of open push connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "uniwiz_websocket_connections",
		Help: "Number of open websocket push connections",
	})

	// WebSocketDrops counts events dropped because a client was too slow.
	WebSocketDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniwiz_websocket_backpressure_drops_total",
		Help: "Total number of push events dropped due to backpressure",
	})
)
