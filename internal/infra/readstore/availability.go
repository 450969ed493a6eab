package readstore

import (
	"context"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// Half-open overlap on daterange: touching periods do not intersect.
const hasOverlap = `
SELECT EXISTS (
    SELECT 1 FROM bookings
    WHERE listing_id = $1
      AND status = ANY($4::text[])
      AND period && daterange($2::date, $3::date, '[)')
) OR EXISTS (
    SELECT 1 FROM availability_blocks
    WHERE listing_id = $1
      AND period && daterange($2::date, $3::date, '[)')
)`

// AvailabilityReadStore is the PostgreSQL booking.ReservationLedger. Owner
// blackout blocks count as occupied time.
type AvailabilityReadStore struct {
	db db.DBTX
}

func NewAvailabilityReadStore(db db.DBTX) *AvailabilityReadStore {
	return &AvailabilityReadStore{db: db}
}

func (r *AvailabilityReadStore) HasOverlap(ctx context.Context, listingID uuid.UUID, dr booking.DateRange) (bool, error) {
	var overlap bool
	err := r.db.QueryRow(ctx, hasOverlap,
		listingID,
		pgconv.DateToPgtype(dr.Start()),
		pgconv.DateToPgtype(dr.End()),
		booking.OccupyingStatusStrings(),
	).Scan(&overlap)
	if err != nil {
		return false, infra.WrapRepoErr("failed to query overlapping bookings", err)
	}
	return overlap, nil
}
