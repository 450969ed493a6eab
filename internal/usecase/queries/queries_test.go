//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/queries"
	"booking-engine/tests/common/builder"
	"booking-engine/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T, b *builder.ListingBuilder) (*memstore.Store, *clock.MockClock, booking.Listing) {
	t.Helper()
	clk := clock.NewMockClock(now)
	store := memstore.New(clk.Now)
	listing := b.BuildDomain()
	store.AddListing(&listing)
	return store, clk, listing
}

func TestListingQueries_Availability(t *testing.T) {
	ctx := context.Background()
	week := builder.Range(builder.Date(2025, 3, 8), builder.Date(2025, 3, 15))

	t.Run("free range is available", func(t *testing.T) {
		store, clk, listing := setup(t, builder.NewListingBuilder())
		q := queries.NewListingQueries(store, booking.NewAvailabilityChecker(clk, time.UTC))

		v, err := q.Availability(ctx, listing.ID, week)
		require.NoError(t, err)
		assert.True(t, v.Available)
	})

	t.Run("occupied range reports DATE_CONFLICT without error", func(t *testing.T) {
		store, clk, listing := setup(t, builder.NewListingBuilder())
		existing, err := booking.NewPendingReservation(listing.ID, week, booking.Quote{}, now)
		require.NoError(t, err)
		store.AddBooking(existing)
		q := queries.NewListingQueries(store, booking.NewAvailabilityChecker(clk, time.UTC))

		v, err := q.Availability(ctx, listing.ID, week)
		require.NoError(t, err)
		assert.False(t, v.Available)
		assert.Equal(t, booking.ReasonDateConflict, v.Reason)
	})

	t.Run("unknown listing", func(t *testing.T) {
		store, clk, _ := setup(t, builder.NewListingBuilder())
		q := queries.NewListingQueries(store, booking.NewAvailabilityChecker(clk, time.UTC))

		_, err := q.Availability(ctx, uuid.New(), week)
		assert.ErrorIs(t, err, errs.ErrListingNotFound)
	})

	t.Run("ledger failure is storage unavailable", func(t *testing.T) {
		store, clk, listing := setup(t, builder.NewListingBuilder())
		store.FailNextOverlap(errors.New("timeout"))
		q := queries.NewListingQueries(store, booking.NewAvailabilityChecker(clk, time.UTC))

		_, err := q.Availability(ctx, listing.ID, week)
		assert.True(t, errs.Is(err, errs.ErrStorageUnavailable), "got %v", err)
	})
}

func TestListingQueries_Price(t *testing.T) {
	ctx := context.Background()

	t.Run("prices an available range", func(t *testing.T) {
		store, clk, listing := setup(t, builder.NewListingBuilder().WithRate(booking.UnitWeek, 900))
		q := queries.NewListingQueries(store, booking.NewAvailabilityChecker(clk, time.UTC))

		b, err := q.Price(ctx, listing.ID, builder.Range(builder.Date(2025, 3, 8), builder.Date(2025, 3, 15)))
		require.NoError(t, err)
		assert.Equal(t, booking.UnitWeek, b.SelectedUnit)
		assert.True(t, decimal.NewFromInt(900).Equal(b.GrandTotal), b.GrandTotal.String())
	})

	t.Run("fails closed when the range is not bookable", func(t *testing.T) {
		store, clk, listing := setup(t, builder.NewListingBuilder().WithNotice(48))
		q := queries.NewListingQueries(store, booking.NewAvailabilityChecker(clk, time.UTC))

		_, err := q.Price(ctx, listing.ID, builder.Range(builder.Date(2025, 3, 6), builder.Date(2025, 3, 8)))
		assert.True(t, booking.IsReason(err, booking.ReasonInsufficientNotice), "got %v", err)
	})

	t.Run("blocked dates are DATE_CONFLICT", func(t *testing.T) {
		store, clk, listing := setup(t, builder.NewListingBuilder())
		store.AddBlock(listing.ID, builder.Range(builder.Date(2025, 3, 10), builder.Date(2025, 3, 11)))
		q := queries.NewListingQueries(store, booking.NewAvailabilityChecker(clk, time.UTC))

		_, err := q.Price(ctx, listing.ID, builder.Range(builder.Date(2025, 3, 8), builder.Date(2025, 3, 15)))
		assert.True(t, booking.IsReason(err, booking.ReasonDateConflict), "got %v", err)
	})

	t.Run("negative tier fails closed instead of quoting", func(t *testing.T) {
		store, clk, listing := setup(t, builder.NewListingBuilder().WithRate(booking.UnitWeek, -900))
		q := queries.NewListingQueries(store, booking.NewAvailabilityChecker(clk, time.UTC))

		b, err := q.Price(ctx, listing.ID, builder.Range(builder.Date(2025, 3, 8), builder.Date(2025, 3, 15)))
		assert.Nil(t, b)
		assert.True(t, booking.IsReason(err, booking.ReasonNoApplicableRate), "got %v", err)
		assert.ErrorIs(t, err, booking.ErrNegativeAmount)
		assert.False(t, errs.Is(err, errs.ErrStorageUnavailable))

		_, err = q.Availability(ctx, listing.ID, builder.Range(builder.Date(2025, 3, 8), builder.Date(2025, 3, 15)))
		assert.True(t, booking.IsReason(err, booking.ReasonNoApplicableRate), "got %v", err)
	})

	t.Run("missing DAY rate", func(t *testing.T) {
		store, clk, listing := setup(t, builder.NewListingBuilder().WithoutRate(booking.UnitDay).WithRate(booking.UnitWeek, 900))
		q := queries.NewListingQueries(store, booking.NewAvailabilityChecker(clk, time.UTC))

		_, err := q.Price(ctx, listing.ID, builder.Range(builder.Date(2025, 3, 8), builder.Date(2025, 3, 15)))
		assert.True(t, booking.IsReason(err, booking.ReasonNoApplicableRate), "got %v", err)
	})
}

func TestBookingQueries(t *testing.T) {
	ctx := context.Background()
	grace := 24
	fee := int64(100)

	store, clk, listing := setup(t, builder.NewListingBuilder().
		WithCancellation(booking.CancellationFlexible, &fee, &grace))
	q := queries.NewBookingQueries(store, clk)

	pending, err := booking.NewPendingReservation(listing.ID,
		builder.Range(builder.Date(2025, 3, 20), builder.Date(2025, 3, 25)), booking.Quote{Currency: "AED"}, now)
	require.NoError(t, err)
	store.AddBooking(pending)

	active := booking.ReconstructReservation(uuid.New(), listing.ID,
		builder.Range(builder.Date(2025, 3, 1), builder.Date(2025, 3, 10)), booking.StatusActive, booking.Quote{}, now)
	store.AddBooking(active)

	t.Run("GetByID", func(t *testing.T) {
		got, err := q.GetByID(ctx, pending.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, got.Status())

		_, err = q.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})

	t.Run("free inside the grace period", func(t *testing.T) {
		view, err := q.CancellationFee(ctx, pending.ID(), now.Add(24*time.Hour))
		require.NoError(t, err)
		assert.True(t, view.Quote.Free)
		assert.True(t, view.Quote.Fee.IsZero())
		assert.Equal(t, "AED", view.Currency)
	})

	t.Run("fee after the grace period, defaulting to now", func(t *testing.T) {
		clk.Set(now.Add(25 * time.Hour))
		t.Cleanup(func() { clk.Set(now) })

		view, err := q.CancellationFee(ctx, pending.ID(), time.Time{})
		require.NoError(t, err)
		assert.False(t, view.Quote.Free)
		assert.True(t, decimal.NewFromInt(100).Equal(view.Quote.Fee))
		assert.Equal(t, now.Add(25*time.Hour), view.At)
	})

	t.Run("active booking cannot be cancelled", func(t *testing.T) {
		_, err := q.CancellationFee(ctx, active.ID(), now)
		assert.ErrorIs(t, err, errs.ErrBookingNotCancellable)
	})
}
