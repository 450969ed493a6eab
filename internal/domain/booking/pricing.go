package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceBreakdown is the charge computed for a range. It is never persisted;
// callers keep a Quote snapshot when they need one.
type PriceBreakdown struct {
	Currency string

	DailyRate          decimal.Decimal
	SelectedUnit       RateUnit
	EffectiveDailyRate decimal.Decimal
	TotalDays          int
	WeekendDays        int

	BasePrice         decimal.Decimal
	WeekendAdjustment decimal.Decimal
	TaxRate           decimal.Decimal
	TaxAmount         decimal.Decimal
	TotalPrice        decimal.Decimal
	SecurityDeposit   decimal.Decimal
	GrandTotal        decimal.Decimal

	PreAuthAmount   decimal.Decimal
	WaiverAvailable bool
	WaiverCost      decimal.Decimal
}

// Quote returns the snapshot stored alongside a booking.
func (b PriceBreakdown) Quote() Quote {
	return Quote{
		Currency:        b.Currency,
		TotalPrice:      b.TotalPrice,
		SecurityDeposit: b.SecurityDeposit,
		GrandTotal:      b.GrandTotal,
	}
}

// CalculatePrice prices r against the table. The range must be valid and
// satisfy the policy's duration bounds; notice and overlap are the
// AvailabilityChecker's concern.
//
// Days priced at the selected tier are summed before rounding so that a
// whole tier always costs exactly its amount, e.g. 7 days on a 900 weekly
// rate is 900 and not 7 × 128.57.
func CalculatePrice(table RateTable, policy RentalPolicy, r DateRange) (PriceBreakdown, error) {
	if !r.IsValid() {
		return PriceBreakdown{}, Reject(ReasonInvalidRange)
	}
	totalDays := r.Days()
	if reason, ok := policy.checkDuration(totalDays); !ok {
		return PriceBreakdown{}, Reject(reason)
	}
	if err := table.Validate(); err != nil {
		return PriceBreakdown{}, RejectWithCause(ReasonNoApplicableRate, err)
	}

	selected, err := SelectRate(table, totalDays)
	if err != nil {
		return PriceBreakdown{}, err
	}
	daily, _ := table.Rate(UnitDay)
	scale := table.Scale()

	weekendDays := 0
	if table.WeekendDayAmount != nil {
		r.EachDay(func(day time.Time) {
			if table.IsWeekend(day) {
				weekendDays++
			}
		})
	}
	tierDays := totalDays - weekendDays

	base := tierCost(selected.Amount, selected.Unit, tierDays).Round(scale)
	if weekendDays > 0 {
		base = base.Add(table.WeekendDayAmount.Mul(decimal.NewFromInt(int64(weekendDays))).Round(scale))
	}
	flat := tierCost(selected.Amount, selected.Unit, totalDays).Round(scale)

	taxRate := table.TaxRate()
	tax := base.Mul(taxRate).Div(hundred).Round(scale)
	total := base.Add(tax)

	deposit := decimal.Zero
	if table.SecurityDepositRequired {
		deposit = table.SecurityDepositAmount.Round(scale)
	}

	b := PriceBreakdown{
		Currency:           table.Currency,
		DailyRate:          daily,
		SelectedUnit:       selected.Unit,
		EffectiveDailyRate: selected.PerDayEquivalent,
		TotalDays:          totalDays,
		WeekendDays:        weekendDays,
		BasePrice:          base,
		WeekendAdjustment:  base.Sub(flat),
		TaxRate:            taxRate,
		TaxAmount:          tax,
		TotalPrice:         total,
		SecurityDeposit:    deposit,
		GrandTotal:         total.Add(deposit),
		PreAuthAmount:      decimal.Zero,
		WaiverAvailable:    table.WaiverAvailable,
		WaiverCost:         decimal.Zero,
	}
	if table.DepositAmount != nil {
		b.PreAuthAmount = *table.DepositAmount
	}
	if table.WaiverAvailable && table.WaiverCost != nil {
		b.WaiverCost = *table.WaiverCost
	}
	return b, nil
}
