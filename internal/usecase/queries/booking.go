package queries

import (
	"context"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type CancellationFeeView struct {
	BookingID uuid.UUID
	Currency  string
	At        time.Time
	Quote     booking.CancellationQuote
}

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/booking.go -package=mock_queries
type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error)
	// CancellationFee quotes what cancelling would cost at the given instant (now when zero).
	CancellationFee(ctx context.Context, id uuid.UUID, at time.Time) (*CancellationFeeView, error)
}

type bookingQueriesImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookingQueries(uow shared.UnitOfWork, clock clock.Clock) BookingQueries {
	return &bookingQueriesImpl{
		uow:   uow,
		clock: clock,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	res, err := q.uow.Reads().BookingByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrStorageUnavailable)
	}
	return res, nil
}

func (q *bookingQueriesImpl) CancellationFee(ctx context.Context, id uuid.UUID, at time.Time) (*CancellationFeeView, error) {
	res, err := q.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.IsCancellable() {
		return nil, errs.ErrBookingNotCancellable
	}

	listing, err := loadListing(ctx, q.uow.Reads(), res.ListingID())
	if err != nil {
		return nil, err
	}

	if at.IsZero() {
		at = q.clock.Now()
	}

	return &CancellationFeeView{
		BookingID: res.ID(),
		Currency:  listing.Rates.Currency,
		At:        at,
		Quote:     listing.Rates.Cancellation.QuoteCancellation(res.CreatedAt(), res.DateRange().Start(), at),
	}, nil
}
