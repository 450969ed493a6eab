package repository

import (
	"context"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/infra/repository/converter"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// The row lock serializes committers per listing; other listings are unaffected.
const lockListingForUpdate = `SELECT ` + converter.ListingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`

type ListingRepository struct {
	db db.DBTX
}

func NewListingRepository(db db.DBTX) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*booking.Listing, error) {
	listing, err := converter.ScanListing(r.db.QueryRow(ctx, lockListingForUpdate, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock listing", err)
	}
	return listing, nil
}
