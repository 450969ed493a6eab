package readstore

import (
	"context"

	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/pgconv"
	"booking-engine/internal/usecase/shared"
)

const getIdempotencyKey = `
SELECT key, endpoint, request_hash, booking_id, expires_at
FROM idempotency_keys
WHERE key = $1 AND expires_at > now()`

type IdempotencyReadStore struct {
	db db.DBTX
}

func NewIdempotencyReadStore(db db.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{db: db}
}

// Get returns only unexpired keys; an expired key behaves as if it was never used.
func (r *IdempotencyReadStore) Get(ctx context.Context, key string) (*shared.IdempotencyRecord, error) {
	var rec shared.IdempotencyRecord
	err := r.db.QueryRow(ctx, getIdempotencyKey, key).Scan(&rec.Key, &rec.Endpoint, &rec.RequestHash, &rec.BookingID, &rec.ExpiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	return &rec, nil
}
