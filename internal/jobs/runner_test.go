//go:build unit

package jobs_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"booking-engine/internal/infra/messaging"
	"booking-engine/internal/jobs"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/shared"
	"booking-engine/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	sent []messaging.Message
	fail map[string]error
}

func (p *recordingPublisher) Publish(_ context.Context, msg messaging.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail[msg.Topic]; err != nil {
		return err
	}
	p.sent = append(p.sent, msg)
	return nil
}

func queuedJob(topic string, runAt time.Time) memstore.Job {
	return memstore.Job{
		NotificationJob: shared.NotificationJob{ID: uuid.New(), Kind: "booking", Topic: topic, Payload: []byte(`{}`)},
		RunAt:           runAt,
		Status:          shared.NotificationStatusQueued,
	}
}

func findJob(t *testing.T, store *memstore.Store, id uuid.UUID) memstore.Job {
	t.Helper()
	for _, j := range store.Jobs() {
		if j.ID == id {
			return j
		}
	}
	t.Fatalf("job %s not found", id)
	return memstore.Job{}
}

func TestRelayOutboxOnce(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

	t.Run("publishes due jobs and marks them sent", func(t *testing.T) {
		clk := clock.NewMockClock(now)
		store := memstore.New(clk.Now)
		pub := &recordingPublisher{}

		due := queuedJob("booking_created", now.Add(-time.Minute))
		future := queuedJob("booking_created", now.Add(time.Hour))
		store.AddJob(due)
		store.AddJob(future)

		runner := jobs.NewRunner(store, pub, clk, config.NewTestConfig())
		sent, err := runner.RelayOutboxOnce(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, sent)
		require.Len(t, pub.sent, 1)
		assert.Equal(t, due.ID, pub.sent[0].ID)
		assert.Equal(t, shared.NotificationStatusSent, findJob(t, store, due.ID).Status)
		assert.Equal(t, shared.NotificationStatusQueued, findJob(t, store, future.ID).Status)
	})

	t.Run("failed publish is rescheduled with backoff", func(t *testing.T) {
		clk := clock.NewMockClock(now)
		store := memstore.New(clk.Now)
		pub := &recordingPublisher{fail: map[string]error{"booking_created": errors.New("broker down")}}

		job := queuedJob("booking_created", now)
		store.AddJob(job)

		runner := jobs.NewRunner(store, pub, clk, config.NewTestConfig())
		sent, err := runner.RelayOutboxOnce(context.Background())
		require.NoError(t, err)
		assert.Zero(t, sent)

		got := findJob(t, store, job.ID)
		assert.Equal(t, shared.NotificationStatusQueued, got.Status)
		assert.Equal(t, 1, got.Attempts)
		assert.Equal(t, "broker down", got.LastError)
		assert.Equal(t, now.Add(30*time.Second), got.RunAt)
	})

	t.Run("job fails permanently after max attempts", func(t *testing.T) {
		clk := clock.NewMockClock(now)
		store := memstore.New(clk.Now)
		pub := &recordingPublisher{fail: map[string]error{"booking_created": errors.New("broker down")}}

		job := queuedJob("booking_created", now)
		job.Attempts = shared.MaxNotificationAttempts - 1
		store.AddJob(job)

		runner := jobs.NewRunner(store, pub, clk, config.NewTestConfig())
		_, err := runner.RelayOutboxOnce(context.Background())
		require.NoError(t, err)

		assert.Equal(t, shared.NotificationStatusFailed, findJob(t, store, job.ID).Status)
	})

	t.Run("batch size caps a single run", func(t *testing.T) {
		clk := clock.NewMockClock(now)
		store := memstore.New(clk.Now)
		pub := &recordingPublisher{}
		for range 5 {
			store.AddJob(queuedJob("booking_created", now))
		}

		cfg := config.NewTestConfig()
		cfg.Jobs.OutboxBatchSize = 2
		runner := jobs.NewRunner(store, pub, clk, cfg)

		sent, err := runner.RelayOutboxOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
	})
}

func TestPurgeIdempotencyKeysOnce(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	store := memstore.New(clk.Now)

	store.AddIdempotency(shared.IdempotencyRecord{Key: "expired", BookingID: uuid.New(), ExpiresAt: now.Add(-time.Second)})
	store.AddIdempotency(shared.IdempotencyRecord{Key: "boundary", BookingID: uuid.New(), ExpiresAt: now})
	store.AddIdempotency(shared.IdempotencyRecord{Key: "live", BookingID: uuid.New(), ExpiresAt: now.Add(time.Hour)})

	runner := jobs.NewRunner(store, &recordingPublisher{}, clk, config.NewTestConfig())
	deleted, err := runner.PurgeIdempotencyKeysOnce(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, deleted)
	_, ok := store.Idempotency("live")
	assert.True(t, ok)
	_, ok = store.Idempotency("expired")
	assert.False(t, ok)
}

func TestNewScheduler(t *testing.T) {
	store := memstore.New(time.Now)

	t.Run("registers both jobs", func(t *testing.T) {
		runner := jobs.NewRunner(store, &recordingPublisher{}, clock.NewRealClock(), config.NewTestConfig())
		s, err := jobs.NewScheduler(runner)
		require.NoError(t, err)
		assert.Equal(t, 2, s.Entries())
	})

	t.Run("invalid spec is an error", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.Jobs.OutboxRelaySpec = "not a cron spec"
		runner := jobs.NewRunner(store, &recordingPublisher{}, clock.NewRealClock(), cfg)

		_, err := jobs.NewScheduler(runner)
		assert.Error(t, err)
	})
}
