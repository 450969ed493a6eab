//go:build unit

package booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/ptr"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gst = time.FixedZone("GST", 4*60*60)

type fakeLedger struct {
	occupied []booking.DateRange
	err      error
	calls    int
}

func (f *fakeLedger) HasOverlap(_ context.Context, _ uuid.UUID, r booking.DateRange) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	for _, o := range f.occupied {
		if o.Overlaps(r) {
			return true, nil
		}
	}
	return false, nil
}

func newChecker(now time.Time) *booking.AvailabilityChecker {
	return booking.NewAvailabilityChecker(clock.NewMockClock(now), gst)
}

func TestAvailabilityChecker_Scenarios(t *testing.T) {
	ctx := context.Background()
	listing := builder.NewListingBuilder().WithRate(booking.UnitWeek, 900).WithNotice(24).BuildDomain()

	t.Run("week starting two days after tomorrow is available", func(t *testing.T) {
		checker := newChecker(time.Date(2025, 3, 5, 10, 0, 0, 0, gst))
		r := builder.Range(builder.Date(2025, 3, 8), builder.Date(2025, 3, 15))

		v, err := checker.Check(ctx, &fakeLedger{}, listing.ID, listing.Policy, r)
		require.NoError(t, err)
		assert.True(t, v.Available)
		assert.Empty(t, v.Reason)
		assert.NoError(t, v.Err())
	})

	t.Run("start within the notice window is rejected", func(t *testing.T) {
		checker := newChecker(time.Date(2025, 3, 5, 18, 0, 0, 0, gst))
		// ten hours from now is early on Mar 6
		r := builder.Range(builder.Date(2025, 3, 6), builder.Date(2025, 3, 8))

		v, err := checker.Check(ctx, &fakeLedger{}, listing.ID, listing.Policy, r)
		require.NoError(t, err)
		assert.False(t, v.Available)
		assert.Equal(t, booking.ReasonInsufficientNotice, v.Reason)
		assert.True(t, booking.IsReason(v.Err(), booking.ReasonInsufficientNotice))
	})

	t.Run("touching an existing booking is fine, overlapping is not", func(t *testing.T) {
		checker := newChecker(time.Date(2025, 3, 1, 9, 0, 0, 0, gst))
		ledger := &fakeLedger{occupied: []booking.DateRange{
			builder.Range(builder.Date(2025, 3, 10), builder.Date(2025, 3, 15)),
		}}

		v, err := checker.Check(ctx, ledger, listing.ID, listing.Policy, builder.Range(builder.Date(2025, 3, 15), builder.Date(2025, 3, 18)))
		require.NoError(t, err)
		assert.True(t, v.Available)

		v, err = checker.Check(ctx, ledger, listing.ID, listing.Policy, builder.Range(builder.Date(2025, 3, 14), builder.Date(2025, 3, 16)))
		require.NoError(t, err)
		assert.False(t, v.Available)
		assert.Equal(t, booking.ReasonDateConflict, v.Reason)
	})
}

func TestAvailabilityChecker_Order(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, gst)
	conflicting := &fakeLedger{occupied: []booking.DateRange{
		builder.Range(builder.Date(2025, 1, 1), builder.Date(2025, 12, 31)),
	}}

	cases := []struct {
		name   string
		policy booking.RentalPolicy
		r      booking.DateRange
		want   booking.ReasonCode
	}{
		{
			name:   "invalid range wins over everything",
			policy: booking.RentalPolicy{MinRentalDays: 3, MinNoticeHours: ptr.Of(48)},
			r:      builder.Range(builder.Date(2025, 2, 20), builder.Date(2025, 2, 20)),
			want:   booking.ReasonInvalidRange,
		},
		{
			name:   "notice before duration",
			policy: booking.RentalPolicy{MinRentalDays: 3, MinNoticeHours: ptr.Of(48)},
			r:      builder.Range(builder.Date(2025, 3, 2), builder.Date(2025, 3, 3)),
			want:   booking.ReasonInsufficientNotice,
		},
		{
			name:   "below minimum before conflict",
			policy: booking.RentalPolicy{MinRentalDays: 3},
			r:      builder.Range(builder.Date(2025, 3, 10), builder.Date(2025, 3, 12)),
			want:   booking.ReasonBelowMinDuration,
		},
		{
			name:   "above maximum before conflict",
			policy: booking.RentalPolicy{MinRentalDays: 1, MaxRentalDays: ptr.Of(5)},
			r:      builder.Range(builder.Date(2025, 3, 10), builder.Date(2025, 3, 16)),
			want:   booking.ReasonExceedsMaxDuration,
		},
		{
			name:   "conflict last",
			policy: booking.RentalPolicy{MinRentalDays: 1, MaxRentalDays: ptr.Of(5)},
			r:      builder.Range(builder.Date(2025, 3, 10), builder.Date(2025, 3, 15)),
			want:   booking.ReasonDateConflict,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ledger := &fakeLedger{occupied: conflicting.occupied}
			v, err := newChecker(now).Check(ctx, ledger, uuid.New(), c.policy, c.r)
			require.NoError(t, err)
			assert.False(t, v.Available)
			assert.Equal(t, c.want, v.Reason)
			if c.want != booking.ReasonDateConflict {
				assert.Zero(t, ledger.calls, "ledger must not be queried when a policy rule fails")
			}
		})
	}
}

func TestAvailabilityChecker_Notice(t *testing.T) {
	cases := []struct {
		name   string
		now    time.Time
		notice *int
		want   time.Time
	}{
		{"no notice allows today", time.Date(2025, 3, 5, 22, 0, 0, 0, gst), nil, builder.Date(2025, 3, 5)},
		{"zero notice allows today", time.Date(2025, 3, 5, 22, 0, 0, 0, gst), ptr.Of(0), builder.Date(2025, 3, 5)},
		{"partial day rounds up", time.Date(2025, 3, 5, 1, 0, 0, 0, gst), ptr.Of(2), builder.Date(2025, 3, 6)},
		{"landing on midnight stays", time.Date(2025, 3, 5, 0, 0, 0, 0, gst), ptr.Of(24), builder.Date(2025, 3, 6)},
		{"evaluated in the booking zone", time.Date(2025, 3, 5, 21, 0, 0, 0, time.UTC), nil, builder.Date(2025, 3, 6)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := newChecker(c.now).EarliestStart(booking.RentalPolicy{MinRentalDays: 1, MinNoticeHours: c.notice})
			assert.Equal(t, c.want, got)
		})
	}

	t.Run("yesterday is never bookable", func(t *testing.T) {
		checker := newChecker(time.Date(2025, 3, 5, 8, 0, 0, 0, gst))
		v := checker.CheckPolicy(booking.RentalPolicy{MinRentalDays: 1}, builder.Range(builder.Date(2025, 3, 4), builder.Date(2025, 3, 6)))
		assert.Equal(t, booking.ReasonInsufficientNotice, v.Reason)
	})
}

func TestAvailabilityChecker_LedgerError(t *testing.T) {
	ledgerErr := errors.New("connection reset")
	checker := newChecker(time.Date(2025, 3, 1, 9, 0, 0, 0, gst))

	_, err := checker.Check(context.Background(), &fakeLedger{err: ledgerErr}, uuid.New(),
		booking.RentalPolicy{MinRentalDays: 1}, builder.Range(builder.Date(2025, 3, 10), builder.Date(2025, 3, 12)))

	require.ErrorIs(t, err, ledgerErr)
	_, isReason := booking.ReasonOf(err)
	assert.False(t, isReason)
}
