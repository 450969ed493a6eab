//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/pkg/ptr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ListingBuilder struct {
	ID       uuid.UUID
	Name     string
	Currency string
	Rates    map[booking.RateUnit]decimal.Decimal

	WeekendDayAmount *decimal.Decimal
	WeekendDays      []time.Weekday
	TaxRatePercent   *decimal.Decimal

	DepositAmount           *decimal.Decimal
	SecurityDepositRequired bool
	SecurityDepositAmount   decimal.Decimal
	WaiverAvailable         bool
	WaiverCost              *decimal.Decimal

	Cancellation  booking.CancellationTerms
	RoundingScale *int32

	MinRentalDays  int
	MaxRentalDays  *int
	MinNoticeHours *int
}

func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		ID:       uuid.New(),
		Name:     "Toyota Land Cruiser 2024",
		Currency: "AED",
		Rates: map[booking.RateUnit]decimal.Decimal{
			booking.UnitDay: decimal.NewFromInt(150),
		},
		Cancellation:  booking.CancellationTerms{Policy: booking.CancellationStrict},
		MinRentalDays: 1,
	}
}

func (b *ListingBuilder) With(mutate func(*ListingBuilder)) *ListingBuilder {
	mutate(b)
	return b
}

func (b *ListingBuilder) WithRate(unit booking.RateUnit, amount int64) *ListingBuilder {
	b.Rates[unit] = decimal.NewFromInt(amount)
	return b
}

func (b *ListingBuilder) WithoutRate(unit booking.RateUnit) *ListingBuilder {
	delete(b.Rates, unit)
	return b
}

func (b *ListingBuilder) WithWeekendAmount(amount int64) *ListingBuilder {
	b.WeekendDayAmount = ptr.Of(decimal.NewFromInt(amount))
	return b
}

func (b *ListingBuilder) WithTax(percent string) *ListingBuilder {
	b.TaxRatePercent = ptr.Of(decimal.RequireFromString(percent))
	return b
}

func (b *ListingBuilder) WithSecurityDeposit(amount int64) *ListingBuilder {
	b.SecurityDepositRequired = true
	b.SecurityDepositAmount = decimal.NewFromInt(amount)
	return b
}

func (b *ListingBuilder) WithRoundingScale(scale int32) *ListingBuilder {
	b.RoundingScale = ptr.Of(scale)
	return b
}

func (b *ListingBuilder) WithNotice(hours int) *ListingBuilder {
	b.MinNoticeHours = ptr.Of(hours)
	return b
}

func (b *ListingBuilder) WithDurationBounds(minDays int, maxDays *int) *ListingBuilder {
	b.MinRentalDays = minDays
	b.MaxRentalDays = maxDays
	return b
}

func (b *ListingBuilder) WithCancellation(policy booking.CancellationPolicy, fee *int64, graceHours *int) *ListingBuilder {
	terms := booking.CancellationTerms{Policy: policy, GracePeriodHours: graceHours}
	if fee != nil {
		terms.FeeAmount = ptr.Of(decimal.NewFromInt(*fee))
	}
	b.Cancellation = terms
	return b
}

// Build methods
func (b *ListingBuilder) BuildRateTable() booking.RateTable {
	rates := make(map[booking.RateUnit]decimal.Decimal, len(b.Rates))
	for unit, amount := range b.Rates {
		rates[unit] = amount
	}
	return booking.RateTable{
		Currency:                b.Currency,
		Rates:                   rates,
		WeekendDayAmount:        b.WeekendDayAmount,
		WeekendDays:             b.WeekendDays,
		TaxRatePercent:          b.TaxRatePercent,
		DepositAmount:           b.DepositAmount,
		SecurityDepositRequired: b.SecurityDepositRequired,
		SecurityDepositAmount:   b.SecurityDepositAmount,
		WaiverAvailable:         b.WaiverAvailable,
		WaiverCost:              b.WaiverCost,
		Cancellation:            b.Cancellation,
		RoundingScale:           b.RoundingScale,
	}
}

func (b *ListingBuilder) BuildPolicy() booking.RentalPolicy {
	return booking.RentalPolicy{
		MinRentalDays:  b.MinRentalDays,
		MaxRentalDays:  b.MaxRentalDays,
		MinNoticeHours: b.MinNoticeHours,
	}
}

func (b *ListingBuilder) BuildDomain() booking.Listing {
	return booking.Listing{
		ID:     b.ID,
		Name:   b.Name,
		Rates:  b.BuildRateTable(),
		Policy: b.BuildPolicy(),
	}
}

// Date returns a UTC calendar date for test ranges.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func Range(start, end time.Time) booking.DateRange {
	return booking.NewDateRange(start, end)
}
