package bootstrap

import (
	"context"
	"log/slog"

	"booking-engine/internal/infra/messaging"
	"booking-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewPublisher,
	),
)

// NewPublisher connects to RabbitMQ when RABBITMQ_URL is set and falls back to
// logging notifications otherwise.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (messaging.Publisher, error) {
	if cfg.RabbitMQ.URL == "" {
		logger.Info("RABBITMQ_URL is not set; notifications will only be logged")
		return messaging.NewLogPublisher(logger), nil
	}

	pub, err := messaging.NewRabbitPublisher(cfg.RabbitMQ)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}
