package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"startupmarket/internal/domain/entity"
	"startupmarket/pkg/logger"
)

// Connect dials NATS with reconnect handling suited to a long-lived API process.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("startupmarket-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// Publisher is the subset of *nats.Conn used to emit events.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// OfferEventPublisher forwards offer events to NATS on <prefix>.<status>.
type OfferEventPublisher struct {
	conn   Publisher
	prefix string
}

func NewOfferEventPublisher(conn Publisher, prefix string) *OfferEventPublisher {
	return &OfferEventPublisher{
		conn:   conn,
		prefix: prefix,
	}
}

func (p *OfferEventPublisher) Subject(status entity.OfferStatus) string {
	return fmt.Sprintf("%s.%s", p.prefix, status)
}

func (p *OfferEventPublisher) Notify(ctx context.Context, event entity.OfferEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal offer event: %w", err)
	}

	subject := p.Subject(event.Status)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish offer event to %s: %w", subject, err)
	}

	logger.Debug("Published %s for offer %s to %s", event.Type, event.OfferID, subject)
	return nil
}
