package messaging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Message is one outbox entry ready for delivery.
type Message struct {
	ID    uuid.UUID
	Topic string
	Body  []byte
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// LogPublisher stands in for a broker when none is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, msg Message) error {
	p.logger.Info("Notification published to log",
		"message_id", msg.ID.String(),
		"topic", msg.Topic,
		"payload", string(msg.Body))
	return nil
}
