package repository

import (
	"context"
	"time"

	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/usecase/shared"
)

const (
	insertIdempotencyKey = `
INSERT INTO idempotency_keys (key, endpoint, request_hash, booking_id, expires_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (key) DO UPDATE
SET endpoint = EXCLUDED.endpoint,
    request_hash = EXCLUDED.request_hash,
    booking_id = EXCLUDED.booking_id,
    expires_at = EXCLUDED.expires_at,
    created_at = now()
WHERE idempotency_keys.expires_at <= now()`

	deleteExpiredIdempotencyKeys = `DELETE FROM idempotency_keys WHERE expires_at <= $1`
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(db db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// Insert takes over an expired key and fails with KindDuplicateKey while the
// key is still live.
func (r *IdempotencyRepository) Insert(ctx context.Context, rec shared.IdempotencyRecord) error {
	tag, err := r.db.Exec(ctx, insertIdempotencyKey, rec.Key, rec.Endpoint, rec.RequestHash, rec.BookingID, rec.ExpiresAt)
	if err != nil {
		return infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key already in use", nil, infra.KindDuplicateKey)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredIdempotencyKeys, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
