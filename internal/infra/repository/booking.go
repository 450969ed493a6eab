package repository

import (
	"context"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/infra/repository/converter"
)

const createBooking = `
INSERT INTO bookings (id, listing_id, period, status, currency, quoted_total, quoted_deposit, quoted_grand, created_at, updated_at)
VALUES ($1, $2, daterange($3::date, $4::date, '[)'), $5, $6, $7, $8, $9, $10, $10)`

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(db db.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the reservation. An overlap with another occupying booking
// surfaces as a KindConflict error from the exclusion constraint.
func (r *BookingRepository) Create(ctx context.Context, res *booking.Reservation) error {
	if _, err := r.db.Exec(ctx, createBooking, converter.ReservationToArgs(res)...); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}
