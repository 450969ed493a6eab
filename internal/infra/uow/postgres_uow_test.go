//go:build unit

package uow

import (
	"errors"
	"testing"
	"time"

	"booking-engine/internal/infra"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestCalculateBackoff_DoublesWithBoundedJitter(t *testing.T) {
	base := 50 * time.Millisecond
	for attempt := range 4 {
		want := time.Duration(1<<attempt) * base
		for range 20 {
			got := calculateBackoff(attempt, base)
			assert.GreaterOrEqual(t, got, want)
			assert.Less(t, got, want+want/5+time.Nanosecond)
		}
	}
}

func TestShouldRetry(t *testing.T) {
	serialization := &pgconn.PgError{Code: infra.PgCodeSerializationFailure}

	assert.True(t, shouldRetry(serialization, 0, 3))
	assert.True(t, shouldRetry(serialization, 2, 3))
	assert.False(t, shouldRetry(serialization, 3, 3))
	assert.False(t, shouldRetry(&pgconn.PgError{Code: infra.PgCodeExclusionViolation}, 0, 3))
	assert.False(t, shouldRetry(errors.New("boom"), 0, 3))
}
