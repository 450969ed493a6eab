package queries

import (
	"context"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=listing.go -destination=../../../tests/mock/queries/listing.go -package=mock_queries

// ListingQueries are advisory: they run outside any transaction and never write.
type ListingQueries interface {
	Availability(ctx context.Context, listingID uuid.UUID, r booking.DateRange) (booking.Verdict, error)
	Price(ctx context.Context, listingID uuid.UUID, r booking.DateRange) (*booking.PriceBreakdown, error)
}

type listingQueriesImpl struct {
	uow     shared.UnitOfWork
	checker *booking.AvailabilityChecker
}

func NewListingQueries(uow shared.UnitOfWork, checker *booking.AvailabilityChecker) ListingQueries {
	return &listingQueriesImpl{
		uow:     uow,
		checker: checker,
	}
}

func (q *listingQueriesImpl) Availability(ctx context.Context, listingID uuid.UUID, r booking.DateRange) (booking.Verdict, error) {
	reads := q.uow.Reads()

	listing, err := loadListing(ctx, reads, listingID)
	if err != nil {
		return booking.Verdict{}, err
	}

	verdict, err := q.checker.Check(ctx, reads, listing.ID, listing.Policy, r)
	if err != nil {
		return booking.Verdict{}, errs.Mark(err, errs.ErrStorageUnavailable)
	}
	return verdict, nil
}

// Price re-validates the range and fails closed with the same reason codes as Availability.
func (q *listingQueriesImpl) Price(ctx context.Context, listingID uuid.UUID, r booking.DateRange) (*booking.PriceBreakdown, error) {
	reads := q.uow.Reads()

	listing, err := loadListing(ctx, reads, listingID)
	if err != nil {
		return nil, err
	}

	verdict, err := q.checker.Check(ctx, reads, listing.ID, listing.Policy, r)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStorageUnavailable)
	}
	if !verdict.Available {
		return nil, verdict.Err()
	}

	breakdown, err := booking.CalculatePrice(listing.Rates, listing.Policy, r)
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func loadListing(ctx context.Context, reads shared.Reads, id uuid.UUID) (*booking.Listing, error) {
	listing, err := reads.ListingByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrListingNotFound
		}
		return nil, errs.Mark(err, errs.ErrStorageUnavailable)
	}
	if err := listing.CheckBookable(); err != nil {
		return nil, err
	}
	return listing, nil
}
