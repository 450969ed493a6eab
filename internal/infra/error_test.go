//go:build unit

package infra

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr_Classifies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RepositoryErrorKind
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: KindNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: PgCodeUniqueViolation}, want: KindDuplicateKey},
		{name: "exclusion violation", err: &pgconn.PgError{Code: PgCodeExclusionViolation}, want: KindConflict},
		{name: "foreign key", err: &pgconn.PgError{Code: PgCodeForeignKeyViolation}, want: KindForeignKeyViolated},
		{name: "wrapped exclusion", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: PgCodeExclusionViolation}), want: KindConflict},
		{name: "anything else", err: errors.New("connection reset"), want: KindDBFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapRepoErr("op", tt.err)
			assert.True(t, IsKind(err, tt.want), "got %v", err)
		})
	}
}

func TestWrapRepoErr_ExplicitKindWins(t *testing.T) {
	err := WrapRepoErr("idempotency key already in use", nil, KindDuplicateKey)

	assert.True(t, IsKind(err, KindDuplicateKey))
	assert.Equal(t, "DUPLICATE_KEY: idempotency key already in use", err.Error())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: PgCodeSerializationFailure}))
	assert.True(t, IsRetryable(fmt.Errorf("commit: %w", &pgconn.PgError{Code: PgCodeDeadlockDetected})))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: PgCodeExclusionViolation}))
	assert.False(t, IsRetryable(errors.New("timeout")))
}
