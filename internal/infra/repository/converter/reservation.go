package converter

import (
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingColumns matches the scan order of ScanReservation.
const BookingColumns = `id, listing_id, lower(period), upper(period), status,
	currency, quoted_total, quoted_deposit, quoted_grand, created_at`

// ReservationToArgs returns the arguments for the booking insert statement.
func ReservationToArgs(res *booking.Reservation) []any {
	q := res.Quote()
	return []any{
		res.ID(),
		res.ListingID(),
		pgconv.DateToPgtype(res.DateRange().Start()),
		pgconv.DateToPgtype(res.DateRange().End()),
		res.Status().String(),
		q.Currency,
		pgconv.DecimalToPgtype(q.TotalPrice),
		pgconv.DecimalToPgtype(q.SecurityDeposit),
		pgconv.DecimalToPgtype(q.GrandTotal),
		pgconv.TimeToPgtype(res.CreatedAt()),
	}
}

func ScanReservation(row pgx.Row) (*booking.Reservation, error) {
	var (
		id, listingID         uuid.UUID
		start, end            pgtype.Date
		status, currency      string
		total, deposit, grand pgtype.Numeric
		createdAt             pgtype.Timestamptz
	)
	if err := row.Scan(&id, &listingID, &start, &end, &status, &currency, &total, &deposit, &grand, &createdAt); err != nil {
		return nil, err
	}

	quote := booking.Quote{Currency: currency}
	var err error
	if quote.TotalPrice, err = pgconv.DecimalFromPgtype(total); err != nil {
		return nil, err
	}
	if quote.SecurityDeposit, err = pgconv.DecimalFromPgtype(deposit); err != nil {
		return nil, err
	}
	if quote.GrandTotal, err = pgconv.DecimalFromPgtype(grand); err != nil {
		return nil, err
	}

	return booking.ReconstructReservation(
		id,
		listingID,
		booking.NewDateRange(pgconv.DateFromPgtype(start), pgconv.DateFromPgtype(end)),
		booking.Status(status),
		quote,
		pgconv.TimeFromPgtype(createdAt),
	), nil
}
