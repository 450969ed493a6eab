package readstore

import (
	"context"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/infra/repository/converter"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const getListingByID = `SELECT ` + converter.ListingColumns + ` FROM listings WHERE id = $1`

type ListingReadStore struct {
	db db.DBTX
}

func NewListingReadStore(db db.DBTX) *ListingReadStore {
	return &ListingReadStore{db: db}
}

// FindByID always reads the current row; pricing is never cached.
func (r *ListingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*booking.Listing, error) {
	listing, err := converter.ScanListing(r.db.QueryRow(ctx, getListingByID, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find listing by ID", err)
	}
	return listing, nil
}
