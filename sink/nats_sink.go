package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"talk-gate/domain/event"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher is the part of *nats.Conn the sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NatsSink publishes each notification on "{subject}.{recipientID}".
type NatsSink struct {
	publisher Publisher
	subject   string
	log       *slog.Logger
}

type natsNotification struct {
	Type           string            `json:"type"`
	RecipientID    string            `json:"recipient_id"`
	RecipientName  string            `json:"recipient_name"`
	FromID         string            `json:"from_id"`
	FromName       string            `json:"from_name"`
	ConversationID string            `json:"conversation_id"`
	Payload        map[string]string `json:"payload,omitempty"`
	At             string            `json:"at"`
}

func NewNatsSink(publisher Publisher, subject string, log *slog.Logger) *NatsSink {
	return &NatsSink{publisher: publisher, subject: subject, log: log}
}

// Connect opens a NATS connection with reconnect logging.
func Connect(url, name string, log *slog.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Info("NATS connection closed")
		}),
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

func (s *NatsSink) Subject(recipientID string) string {
	return s.subject + "." + recipientID
}

func (s *NatsSink) Notify(ctx context.Context, n event.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(natsNotification{
		Type:           string(n.Type),
		RecipientID:    n.Recipient.ID,
		RecipientName:  n.Recipient.Name,
		FromID:         n.From.ID,
		FromName:       n.From.Name,
		ConversationID: n.ConversationID,
		Payload:        n.Payload,
		At:             n.At.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	subject := s.Subject(n.Recipient.ID)
	if err = s.publisher.Publish(subject, data); err != nil {
		return fmt.Errorf("publish on %s failed: %w", subject, err)
	}
	s.log.Debug("Notification published", "subject", subject, "type", n.Type)
	return nil
}
