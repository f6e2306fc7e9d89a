package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the chat server collectors. A single instance is created in
// main and threaded through the hub and handlers.
type Metrics struct {
	registry *prometheus.Registry

	ConnectionsActive  prometheus.Gauge
	RoomsActive        prometheus.Gauge
	MessagesSent       prometheus.Counter
	MessagesDelivered  prometheus.Counter
	MessagesDropped    prometheus.Counter
	PersistenceErrors  prometheus.Counter
	TypingSignals      prometheus.Counter
	PresenceBroadcasts prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ConnectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "teamchat_connections_active",
			Help: "Number of live websocket connections.",
		}),
		RoomsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "teamchat_rooms_active",
			Help: "Number of rooms with at least one subscriber.",
		}),
		MessagesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "teamchat_messages_sent_total",
			Help: "Messages accepted and persisted by the hub.",
		}),
		MessagesDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "teamchat_messages_delivered_total",
			Help: "Per-connection deliveries of broadcast messages.",
		}),
		MessagesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "teamchat_messages_dropped_total",
			Help: "Deliveries dropped because a connection outbox was full.",
		}),
		PersistenceErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "teamchat_persistence_errors_total",
			Help: "Message sends aborted by a storage failure.",
		}),
		TypingSignals: factory.NewCounter(prometheus.CounterOpts{
			Name: "teamchat_typing_signals_total",
			Help: "Typing signals broadcast to rooms.",
		}),
		PresenceBroadcasts: factory.NewCounter(prometheus.CounterOpts{
			Name: "teamchat_presence_broadcasts_total",
			Help: "Presence updates broadcast to all connections.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
