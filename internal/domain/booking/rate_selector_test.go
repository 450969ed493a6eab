//go:build unit

package booking_test

import (
	"testing"

	"booking-engine/internal/domain/booking"
	"booking-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectRate(t *testing.T) {
	cases := []struct {
		name    string
		build   func(*builder.ListingBuilder)
		days    int
		unit    booking.RateUnit
		perDay  string
		wantErr booking.ReasonCode
	}{
		{
			name:   "daily only",
			build:  func(b *builder.ListingBuilder) {},
			days:   5,
			unit:   booking.UnitDay,
			perDay: "150",
		},
		{
			name:   "week does not qualify for six days",
			build:  func(b *builder.ListingBuilder) { b.WithRate(booking.UnitWeek, 900) },
			days:   6,
			unit:   booking.UnitDay,
			perDay: "150",
		},
		{
			name:   "week is the best deal at seven days",
			build:  func(b *builder.ListingBuilder) { b.WithRate(booking.UnitWeek, 900) },
			days:   7,
			unit:   booking.UnitWeek,
			perDay: "128.57",
		},
		{
			name:   "week keeps winning for ten days",
			build:  func(b *builder.ListingBuilder) { b.WithRate(booking.UnitWeek, 900) },
			days:   10,
			unit:   booking.UnitWeek,
			perDay: "128.57",
		},
		{
			name:   "expensive week is ignored",
			build:  func(b *builder.ListingBuilder) { b.WithRate(booking.UnitWeek, 1200) },
			days:   14,
			unit:   booking.UnitDay,
			perDay: "150",
		},
		{
			name:   "tie prefers the longer tier",
			build:  func(b *builder.ListingBuilder) { b.WithRate(booking.UnitWeek, 1050) },
			days:   7,
			unit:   booking.UnitWeek,
			perDay: "150",
		},
		{
			name:   "three day tier",
			build:  func(b *builder.ListingBuilder) { b.WithRate(booking.UnitThreeDay, 360) },
			days:   3,
			unit:   booking.UnitThreeDay,
			perDay: "120",
		},
		{
			name:   "three day tier needs three days",
			build:  func(b *builder.ListingBuilder) { b.WithRate(booking.UnitThreeDay, 360) },
			days:   2,
			unit:   booking.UnitDay,
			perDay: "150",
		},
		{
			name: "month at thirty days",
			build: func(b *builder.ListingBuilder) {
				b.WithRate(booking.UnitWeek, 900).WithRate(booking.UnitMonth, 3000)
			},
			days:   30,
			unit:   booking.UnitMonth,
			perDay: "100",
		},
		{
			name: "month not yet at twenty nine days",
			build: func(b *builder.ListingBuilder) {
				b.WithRate(booking.UnitWeek, 900).WithRate(booking.UnitMonth, 3000)
			},
			days:   29,
			unit:   booking.UnitWeek,
			perDay: "128.57",
		},
		{
			name:   "cheap hourly rate scaled to a day",
			build:  func(b *builder.ListingBuilder) { b.WithRate(booking.UnitHour, 5) },
			days:   1,
			unit:   booking.UnitHour,
			perDay: "120",
		},
		{
			name:    "missing daily rate",
			build:   func(b *builder.ListingBuilder) { b.WithoutRate(booking.UnitDay).WithRate(booking.UnitWeek, 900) },
			days:    7,
			wantErr: booking.ReasonNoApplicableRate,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			table := builder.NewListingBuilder().With(c.build).BuildRateTable()

			got, err := booking.SelectRate(table, c.days)
			if c.wantErr != "" {
				require.Error(t, err)
				assert.True(t, booking.IsReason(err, c.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.unit, got.Unit)
			assertDecimal(t, c.perDay, got.PerDayEquivalent)
		})
	}
}

func TestSelectRate_BestDealMonotonicity(t *testing.T) {
	table := builder.NewListingBuilder().
		WithRate(booking.UnitThreeDay, 400).
		WithRate(booking.UnitWeek, 900).
		WithRate(booking.UnitMonth, 3000).
		BuildRateTable()

	prev, err := booking.SelectRate(table, 1)
	require.NoError(t, err)
	for days := 2; days <= 90; days++ {
		got, err := booking.SelectRate(table, days)
		require.NoError(t, err)
		assert.True(t, got.PerDayEquivalent.LessThanOrEqual(prev.PerDayEquivalent),
			"per-day rate rose from %s to %s at %d days", prev.PerDayEquivalent, got.PerDayEquivalent, days)
		prev = got
	}
}
