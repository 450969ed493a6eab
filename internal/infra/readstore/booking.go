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

const getBookingByID = `SELECT ` + converter.BookingColumns + ` FROM bookings WHERE id = $1`

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	res, err := converter.ScanReservation(r.db.QueryRow(ctx, getBookingByID, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return res, nil
}
