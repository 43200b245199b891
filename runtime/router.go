package runtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"unimarket/contract"
	"unimarket/domain/chat"
	"unimarket/observability"
)

// Router delivers a persisted message to its two interested sinks: the
// sender always gets a confirmation echo, the receiver gets the identical
// bytes iff a live connection is registered. Serialization happens exactly
// once so both peers observe the same id and timestamp, byte for byte.
type Router struct {
	registry contract.IRegistry
	log      *slog.Logger
	metrics  *observability.Metrics
}

func NewRouter(log *slog.Logger, registry contract.IRegistry, metrics *observability.Metrics) *Router {
	return &Router{registry: registry, log: log, metrics: metrics}
}

// Deliver pushes the envelope to the sender's own sink and, when the
// receiver is connected, to the receiver's sink. An absent receiver is not
// an error: the message is already persisted and will surface through a
// history fetch. Sink failures are logged and swallowed; transport-level
// delivery guarantees are the transport's concern.
func (r *Router) Deliver(ctx context.Context, envelope chat.Envelope, sender contract.Sink) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	if err := sender.Deliver(ctx, payload); err != nil {
		r.log.Warn("echo to sender failed", "message_id", envelope.ID, "error", err)
	} else {
		r.metrics.MessagesDelivered.Inc()
	}

	receiverSink, ok := r.registry.Lookup(envelope.Receiver)
	if !ok {
		r.log.Debug("receiver offline, message stored only",
			"message_id", envelope.ID, "receiver", envelope.Receiver)
		r.metrics.MessagesDropped.Inc()
		return nil
	}

	if err := receiverSink.Deliver(ctx, payload); err != nil {
		r.log.Warn("forward to receiver failed", "message_id", envelope.ID, "error", err)
		r.metrics.MessagesDropped.Inc()
		return nil
	}
	r.metrics.MessagesDelivered.Inc()
	return nil
}
