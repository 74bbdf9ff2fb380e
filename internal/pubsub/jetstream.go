package pubsub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/inazuma-guide/internal/logger"
)

// DefaultStreamName is the JetStream stream holding team events
const DefaultStreamName = "TEAM_EVENTS"

// jetStreamBus publishes events to a JetStream subject and fans received
// messages out to local subscribers.
type jetStreamBus struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	sub     *nats.Subscription
	subject string
	local   *fanout
}

func ensureStream(js nats.JetStreamContext, cfg *nats.StreamConfig) error {
	if _, err := js.StreamInfo(cfg.Name); err == nil {
		return nil
	}
	if _, err := js.AddStream(cfg); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
	}
	logger.Info("JetStream stream created", "stream", cfg.Name, "subjects", cfg.Subjects)
	return nil
}

func newJetStreamBus(nc *nats.Conn, subject string, stream *nats.StreamConfig) (*jetStreamBus, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	if err := ensureStream(js, stream); err != nil {
		return nil, err
	}

	b := &jetStreamBus{
		nc:      nc,
		js:      js,
		subject: subject,
		local:   newFanout(100),
	}

	b.sub, err = js.Subscribe(subject, b.handle, nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	logger.Debug("Subscribed to JetStream", "subject", subject)

	return b, nil
}

func (b *jetStreamBus) handle(msg *nats.Msg) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to unmarshal event from JetStream", "error", err)
		msg.Nak()
		return
	}
	b.local.broadcast(event)
	msg.Ack()
}

func (b *jetStreamBus) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}
	if _, err := b.js.Publish(b.subject, data); err != nil {
		logger.Error("Failed to publish to NATS", "error", err, "subject", b.subject, "event_type", event.Type)
		return
	}
	logger.Debug("Published event to NATS", "event_type", event.Type, "subject", b.subject)
}

func (b *jetStreamBus) Subscribe() chan Event {
	return b.local.add()
}

func (b *jetStreamBus) Unsubscribe(ch chan Event) {
	b.local.remove(ch)
}

// SubscriberCount returns the number of active local subscribers
func (b *jetStreamBus) SubscriberCount() int {
	return b.local.count()
}

// Flush waits until the server has processed everything published so far
func (b *jetStreamBus) Flush(timeout time.Duration) error {
	return b.nc.FlushTimeout(timeout)
}

func (b *jetStreamBus) close() {
	if b.sub != nil {
		_ = b.sub.Unsubscribe()
	}
	b.local.closeAll()
	if b.nc != nil {
		b.nc.Close()
	}
}
