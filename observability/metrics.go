package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the counters the chat core and the API maintain. All
// instruments are registered on the given registerer so tests can use an
// isolated registry.
type Metrics struct {
	ActiveConnections prometheus.Gauge
	AuthFailures      prometheus.Counter
	MessagesPersisted prometheus.Counter
	MessagesDelivered prometheus.Counter
	MessagesDropped   prometheus.Counter
	MalformedPayloads prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "unimarket_chat_active_connections",
			Help: "Number of live websocket connections in the registry.",
		}),
		AuthFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "unimarket_chat_auth_failures_total",
			Help: "Connections refused because the handshake credential did not resolve.",
		}),
		MessagesPersisted: factory.NewCounter(prometheus.CounterOpts{
			Name: "unimarket_chat_messages_persisted_total",
			Help: "Messages appended to the message store.",
		}),
		MessagesDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "unimarket_chat_messages_delivered_total",
			Help: "Envelope deliveries pushed to a live sink (echo and forward).",
		}),
		MessagesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "unimarket_chat_messages_dropped_total",
			Help: "Deliveries skipped because the receiver was offline or the sink failed.",
		}),
		MalformedPayloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "unimarket_chat_malformed_payloads_total",
			Help: "Inbound payloads dropped because they failed to parse.",
		}),
	}
}
