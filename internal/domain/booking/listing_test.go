//go:build unit

package booking_test

import (
	"testing"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/pkg/ptr"
	"booking-engine/tests/common/builder"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestListingValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func(*builder.ListingBuilder)
		want  error
	}{
		{name: "default listing", build: func(b *builder.ListingBuilder) {}},
		{name: "all tiers", build: func(b *builder.ListingBuilder) {
			b.WithRate(booking.UnitHour, 10).WithRate(booking.UnitWeek, 900).WithRate(booking.UnitMonth, 3000)
		}},
		{name: "zero tax and scale bounds", build: func(b *builder.ListingBuilder) { b.WithTax("0").WithRoundingScale(4) }},
		{name: "missing daily rate", build: func(b *builder.ListingBuilder) { b.WithoutRate(booking.UnitDay) }, want: booking.ErrDailyRateRequired},
		{name: "zero daily rate", build: func(b *builder.ListingBuilder) { b.WithRate(booking.UnitDay, 0) }, want: booking.ErrDailyRateRequired},
		{name: "negative weekly tier", build: func(b *builder.ListingBuilder) { b.WithRate(booking.UnitWeek, -900) }, want: booking.ErrNegativeAmount},
		{name: "negative weekend amount", build: func(b *builder.ListingBuilder) { b.WithWeekendAmount(-1) }, want: booking.ErrNegativeAmount},
		{name: "negative tax", build: func(b *builder.ListingBuilder) { b.WithTax("-0.5") }, want: booking.ErrNegativeAmount},
		{name: "negative security deposit", build: func(b *builder.ListingBuilder) { b.WithSecurityDeposit(-100) }, want: booking.ErrNegativeAmount},
		{name: "negative cancellation fee", build: func(b *builder.ListingBuilder) {
			b.WithCancellation(booking.CancellationStrict, ptr.Of[int64](-1), nil)
		}, want: booking.ErrNegativeAmount},
		{name: "negative waiver cost", build: func(b *builder.ListingBuilder) {
			b.WaiverCost = ptr.Of(decimal.NewFromInt(-45))
		}, want: booking.ErrNegativeAmount},
		{name: "currency too long", build: func(b *builder.ListingBuilder) { b.Currency = "DIRHAM" }, want: booking.ErrInvalidCurrency},
		{name: "empty currency", build: func(b *builder.ListingBuilder) { b.Currency = "" }, want: booking.ErrInvalidCurrency},
		{name: "scale above 4", build: func(b *builder.ListingBuilder) { b.WithRoundingScale(5) }, want: booking.ErrInvalidScale},
		{name: "negative scale", build: func(b *builder.ListingBuilder) { b.WithRoundingScale(-1) }, want: booking.ErrInvalidScale},
		{name: "zero minimum days", build: func(b *builder.ListingBuilder) { b.WithDurationBounds(0, nil) }, want: booking.ErrInvalidMinRentalDays},
		{name: "minimum above maximum", build: func(b *builder.ListingBuilder) { b.WithDurationBounds(5, ptr.Of(3)) }, want: booking.ErrInvalidRentalBounds},
		{name: "negative notice", build: func(b *builder.ListingBuilder) { b.WithNotice(-1) }, want: booking.ErrNegativeNoticeHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := builder.NewListingBuilder().With(tt.build).BuildDomain()
			err := listing.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestListingCheckBookable(t *testing.T) {
	t.Run("valid listing", func(t *testing.T) {
		assert.NoError(t, builder.NewListingBuilder().BuildDomain().CheckBookable())
	})

	t.Run("invalid listing has no applicable rate", func(t *testing.T) {
		listing := builder.NewListingBuilder().WithRate(booking.UnitWeek, -900).BuildDomain()

		err := listing.CheckBookable()
		assert.True(t, booking.IsReason(err, booking.ReasonNoApplicableRate), "got %v", err)
		assert.ErrorIs(t, err, booking.ErrNegativeAmount)
		assert.Contains(t, err.Error(), "amount cannot be negative")
	})
}
