package converter

import (
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/pkg/pgconv"
	"booking-engine/internal/pkg/ptr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ListingColumns matches the scan order of ScanListing.
const ListingColumns = `id, name, currency,
	hourly_rate, daily_rate, three_day_rate, weekly_rate, monthly_rate,
	weekend_day_rate, weekend_days, tax_rate_percent, rounding_scale,
	deposit_amount, security_deposit_required, security_deposit_amount, waiver_available, waiver_cost,
	cancellation_policy, cancellation_fee_amount, grace_period_hours,
	min_rental_days, max_rental_days, min_notice_hours,
	min_age, max_age, max_mileage_per_day, max_mileage_per_rental`

type listingRow struct {
	ID       uuid.UUID
	Name     string
	Currency string

	HourlyRate     pgtype.Numeric
	DailyRate      pgtype.Numeric
	ThreeDayRate   pgtype.Numeric
	WeeklyRate     pgtype.Numeric
	MonthlyRate    pgtype.Numeric
	WeekendDayRate pgtype.Numeric
	WeekendDays    []int16
	TaxRatePercent pgtype.Numeric
	RoundingScale  pgtype.Int2

	DepositAmount           pgtype.Numeric
	SecurityDepositRequired bool
	SecurityDepositAmount   pgtype.Numeric
	WaiverAvailable         bool
	WaiverCost              pgtype.Numeric

	CancellationPolicy    string
	CancellationFeeAmount pgtype.Numeric
	GracePeriodHours      pgtype.Int4

	MinRentalDays       int32
	MaxRentalDays       pgtype.Int4
	MinNoticeHours      pgtype.Int4
	MinAge              pgtype.Int4
	MaxAge              pgtype.Int4
	MaxMileagePerDay    pgtype.Int4
	MaxMileagePerRental pgtype.Int4
}

func ScanListing(row pgx.Row) (*booking.Listing, error) {
	var r listingRow
	err := row.Scan(
		&r.ID, &r.Name, &r.Currency,
		&r.HourlyRate, &r.DailyRate, &r.ThreeDayRate, &r.WeeklyRate, &r.MonthlyRate,
		&r.WeekendDayRate, &r.WeekendDays, &r.TaxRatePercent, &r.RoundingScale,
		&r.DepositAmount, &r.SecurityDepositRequired, &r.SecurityDepositAmount, &r.WaiverAvailable, &r.WaiverCost,
		&r.CancellationPolicy, &r.CancellationFeeAmount, &r.GracePeriodHours,
		&r.MinRentalDays, &r.MaxRentalDays, &r.MinNoticeHours,
		&r.MinAge, &r.MaxAge, &r.MaxMileagePerDay, &r.MaxMileagePerRental,
	)
	if err != nil {
		return nil, err
	}
	return r.toDomain()
}

func (r listingRow) toDomain() (*booking.Listing, error) {
	rates := make(map[booking.RateUnit]decimal.Decimal, 5)
	for unit, n := range map[booking.RateUnit]pgtype.Numeric{
		booking.UnitHour:     r.HourlyRate,
		booking.UnitDay:      r.DailyRate,
		booking.UnitThreeDay: r.ThreeDayRate,
		booking.UnitWeek:     r.WeeklyRate,
		booking.UnitMonth:    r.MonthlyRate,
	} {
		amount, err := ptr.DecimalFromPgtype(n)
		if err != nil {
			return nil, err
		}
		if amount != nil {
			rates[unit] = *amount
		}
	}

	weekendAmount, err := ptr.DecimalFromPgtype(r.WeekendDayRate)
	if err != nil {
		return nil, err
	}
	tax, err := ptr.DecimalFromPgtype(r.TaxRatePercent)
	if err != nil {
		return nil, err
	}
	deposit, err := ptr.DecimalFromPgtype(r.DepositAmount)
	if err != nil {
		return nil, err
	}
	securityDeposit, err := pgconv.DecimalFromPgtype(r.SecurityDepositAmount)
	if err != nil {
		return nil, err
	}
	waiverCost, err := ptr.DecimalFromPgtype(r.WaiverCost)
	if err != nil {
		return nil, err
	}
	cancelFee, err := ptr.DecimalFromPgtype(r.CancellationFeeAmount)
	if err != nil {
		return nil, err
	}

	weekendDays := make([]time.Weekday, 0, len(r.WeekendDays))
	for _, d := range r.WeekendDays {
		weekendDays = append(weekendDays, time.Weekday(d))
	}

	return &booking.Listing{
		ID:   r.ID,
		Name: r.Name,
		Rates: booking.RateTable{
			Currency:                r.Currency,
			Rates:                   rates,
			WeekendDayAmount:        weekendAmount,
			WeekendDays:             weekendDays,
			TaxRatePercent:          tax,
			DepositAmount:           deposit,
			SecurityDepositRequired: r.SecurityDepositRequired,
			SecurityDepositAmount:   securityDeposit,
			WaiverAvailable:         r.WaiverAvailable,
			WaiverCost:              waiverCost,
			Cancellation: booking.CancellationTerms{
				Policy:           booking.CancellationPolicy(r.CancellationPolicy),
				FeeAmount:        cancelFee,
				GracePeriodHours: ptr.IntFromPgtype(r.GracePeriodHours),
			},
			RoundingScale: ptr.Int32FromPgtype(r.RoundingScale),
		},
		Policy: booking.RentalPolicy{
			MinRentalDays:       int(r.MinRentalDays),
			MaxRentalDays:       ptr.IntFromPgtype(r.MaxRentalDays),
			MinNoticeHours:      ptr.IntFromPgtype(r.MinNoticeHours),
			MinAge:              ptr.IntFromPgtype(r.MinAge),
			MaxAge:              ptr.IntFromPgtype(r.MaxAge),
			MaxMileagePerDay:    ptr.IntFromPgtype(r.MaxMileagePerDay),
			MaxMileagePerRental: ptr.IntFromPgtype(r.MaxMileagePerRental),
		},
	}, nil
}
