package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
}

// NewScheduler registers every job. Specs use the seconds field, evaluated in UTC.
func NewScheduler(runner *Runner) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{cron: c, runner: runner}
	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	cfg := s.runner.Config()

	if _, err := s.cron.AddFunc(cfg.OutboxRelaySpec, s.runner.RelayOutbox); err != nil {
		return fmt.Errorf("failed to register outbox relay job: %w", err)
	}
	if _, err := s.cron.AddFunc(cfg.IdempotencyPurgeSpec, s.runner.PurgeIdempotencyKeys); err != nil {
		return fmt.Errorf("failed to register idempotency purge job: %w", err)
	}

	slog.Info("Cron jobs registered", "count", len(s.cron.Entries()))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Cron scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
