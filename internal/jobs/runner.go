package jobs

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/infra/messaging"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/shared"
)

const (
	defaultBatchSize = 50
	jobTimeout       = 30 * time.Second
	retryBaseDelay   = 30 * time.Second
)

// Runner holds the background jobs. Each exported method is a complete job
// run suitable for a cron entry.
type Runner struct {
	uow       shared.UnitOfWork
	publisher messaging.Publisher
	clock     clock.Clock
	cfg       config.JobsConfig
}

func NewRunner(uow shared.UnitOfWork, publisher messaging.Publisher, clock clock.Clock, cfg config.Config) *Runner {
	return &Runner{
		uow:       uow,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg.Jobs,
	}
}

func (r *Runner) Config() config.JobsConfig {
	return r.cfg
}

// RelayOutbox is the cron entry point for RelayOutboxOnce.
func (r *Runner) RelayOutbox() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := r.RelayOutboxOnce(ctx); err != nil {
		slog.Error("Outbox relay failed", "error", err.Error())
	}
}

// RelayOutboxOnce claims due notification jobs, publishes them and records
// the outcome in the same transaction. A publish failure reschedules the job
// with linear backoff until it runs out of attempts.
func (r *Runner) RelayOutboxOnce(ctx context.Context) (int, error) {
	batch := r.cfg.OutboxBatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}

	sent := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := r.clock.Now()

		jobs, err := tx.Notifications().ClaimDue(ctx, now, batch)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			msg := messaging.Message{ID: job.ID, Topic: job.Topic, Body: job.Payload}
			if pubErr := r.publisher.Publish(ctx, msg); pubErr != nil {
				retryAt := now.Add(time.Duration(job.Attempts+1) * retryBaseDelay)
				slog.Warn("Notification publish failed",
					"job_id", job.ID.String(),
					"topic", job.Topic,
					"attempt", job.Attempts+1,
					"error", pubErr.Error())
				if err := tx.Notifications().MarkFailed(ctx, job.ID, pubErr.Error(), retryAt); err != nil {
					return err
				}
				continue
			}
			if err := tx.Notifications().MarkSent(ctx, job.ID); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if sent > 0 {
		slog.Info("Outbox relayed", "sent", sent)
	}
	return sent, nil
}

// PurgeIdempotencyKeys is the cron entry point for PurgeIdempotencyKeysOnce.
func (r *Runner) PurgeIdempotencyKeys() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := r.PurgeIdempotencyKeysOnce(ctx); err != nil {
		slog.Error("Idempotency purge failed", "error", err.Error())
	}
}

func (r *Runner) PurgeIdempotencyKeysOnce(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Idempotency().DeleteExpired(ctx, r.clock.Now())
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		slog.Info("Expired idempotency keys purged", "count", deleted)
	}
	return deleted, nil
}
