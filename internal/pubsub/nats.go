package pubsub

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/inazuma-guide/internal/logger"
)

// NATSPubSub implements pub/sub against a remote NATS JetStream server
type NATSPubSub struct {
	*jetStreamBus
}

// NewNATSPubSub connects to natsURL and ensures the team events stream exists
func NewNATSPubSub(natsURL, subject string) (*NATSPubSub, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("inazuma-guide"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	bus, err := newJetStreamBus(nc, subject, &nats.StreamConfig{
		Name:     DefaultStreamName,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, err
	}

	logger.Info("Connected to NATS", "url", nc.ConnectedUrl(), "subject", subject)
	return &NATSPubSub{jetStreamBus: bus}, nil
}

// Close drops the subscription and the connection
func (p *NATSPubSub) Close() {
	p.close()
}
