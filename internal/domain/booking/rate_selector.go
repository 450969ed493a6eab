package booking

import (
	"github.com/shopspring/decimal"
)

// SelectedRate is the tier chosen for a rental length.
type SelectedRate struct {
	Unit   RateUnit
	Amount decimal.Decimal
	// PerDayEquivalent is Amount scaled to one day, rounded half-up at the table's scale.
	PerDayEquivalent decimal.Decimal
}

// SelectRate picks the tier with the lowest per-day-equivalent cost among the
// tiers no longer than the rental. Ties go to the longer tier.
func SelectRate(table RateTable, totalDays int) (SelectedRate, error) {
	daily, ok := table.Rate(UnitDay)
	if !ok {
		return SelectedRate{}, Reject(ReasonNoApplicableRate)
	}

	best := UnitDay
	bestAmount := daily
	rentalHours := int64(totalDays) * hoursPerDay

	for _, unit := range rateUnits {
		amount, ok := table.Rate(unit)
		if !ok || unit == UnitDay || unit.Hours() > rentalHours {
			continue
		}
		if cheaperPerHour(amount, unit, bestAmount, best) {
			best = unit
			bestAmount = amount
		}
	}

	return SelectedRate{
		Unit:             best,
		Amount:           bestAmount,
		PerDayEquivalent: perDay(bestAmount, best).Round(table.Scale()),
	}, nil
}

// cheaperPerHour compares a/aUnit against b/bUnit by cross multiplication so
// no rounding is involved.
func cheaperPerHour(a decimal.Decimal, aUnit RateUnit, b decimal.Decimal, bUnit RateUnit) bool {
	lhs := a.Mul(decimal.NewFromInt(bUnit.Hours()))
	rhs := b.Mul(decimal.NewFromInt(aUnit.Hours()))
	switch lhs.Cmp(rhs) {
	case -1:
		return true
	case 0:
		return aUnit.Hours() > bUnit.Hours()
	default:
		return false
	}
}

func perDay(amount decimal.Decimal, unit RateUnit) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(hoursPerDay)).Div(decimal.NewFromInt(unit.Hours()))
}

// tierCost is the unrounded price of days at the tier's implied daily rate.
func tierCost(amount decimal.Decimal, unit RateUnit, days int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(days) * hoursPerDay)).Div(decimal.NewFromInt(unit.Hours()))
}
