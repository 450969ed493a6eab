package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrDailyRateRequired = errors.New("daily rate is required")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrInvalidCurrency   = errors.New("currency must be a 3-letter code")
	ErrInvalidScale      = errors.New("rounding scale must be between 0 and 4")
)

type RateUnit string

const (
	UnitHour     RateUnit = "HOUR"
	UnitDay      RateUnit = "DAY"
	UnitThreeDay RateUnit = "THREE_DAY"
	UnitWeek     RateUnit = "WEEK"
	UnitMonth    RateUnit = "MONTH"
)

// rateUnits is ordered shortest tier first; selection iterates it so the
// result never depends on map order.
var rateUnits = []RateUnit{UnitHour, UnitDay, UnitThreeDay, UnitWeek, UnitMonth}

// Hours is the nominal length of one tier. A month counts as 30 days.
func (u RateUnit) Hours() int64 {
	switch u {
	case UnitHour:
		return 1
	case UnitDay:
		return hoursPerDay
	case UnitThreeDay:
		return 3 * hoursPerDay
	case UnitWeek:
		return 7 * hoursPerDay
	case UnitMonth:
		return 30 * hoursPerDay
	default:
		return 0
	}
}

func (u RateUnit) IsValid() bool {
	return u.Hours() > 0
}

func (u RateUnit) String() string {
	return string(u)
}

type CancellationPolicy string

const (
	CancellationStrict   CancellationPolicy = "STRICT"
	CancellationFlexible CancellationPolicy = "FLEXIBLE"
	CancellationFree     CancellationPolicy = "FREE_CANCELLATION"
)

func (p CancellationPolicy) IsValid() bool {
	switch p {
	case CancellationStrict, CancellationFlexible, CancellationFree:
		return true
	default:
		return false
	}
}

type CancellationTerms struct {
	Policy           CancellationPolicy
	FeeAmount        *decimal.Decimal
	GracePeriodHours *int
}

var defaultWeekendDays = []time.Weekday{time.Friday, time.Saturday}

// RateTable is the per-listing pricing configuration. The engine only reads it.
type RateTable struct {
	Currency string
	Rates    map[RateUnit]decimal.Decimal

	// WeekendDayAmount replaces the per-day rate on WeekendDays when set.
	WeekendDayAmount *decimal.Decimal
	WeekendDays      []time.Weekday

	TaxRatePercent *decimal.Decimal

	DepositAmount           *decimal.Decimal
	SecurityDepositRequired bool
	SecurityDepositAmount   decimal.Decimal
	WaiverAvailable         bool
	WaiverCost              *decimal.Decimal

	Cancellation CancellationTerms

	// RoundingScale overrides the currency's minor-unit exponent.
	RoundingScale *int32
}

func (t RateTable) Validate() error {
	daily, ok := t.Rates[UnitDay]
	if !ok || !daily.IsPositive() {
		return ErrDailyRateRequired
	}
	if len(strings.TrimSpace(t.Currency)) != 3 {
		return ErrInvalidCurrency
	}
	for _, amount := range t.Rates {
		if amount.IsNegative() {
			return ErrNegativeAmount
		}
	}
	for _, opt := range []*decimal.Decimal{t.WeekendDayAmount, t.TaxRatePercent, t.DepositAmount, t.WaiverCost, t.Cancellation.FeeAmount} {
		if opt != nil && opt.IsNegative() {
			return ErrNegativeAmount
		}
	}
	if t.SecurityDepositAmount.IsNegative() {
		return ErrNegativeAmount
	}
	if t.RoundingScale != nil && (*t.RoundingScale < 0 || *t.RoundingScale > 4) {
		return ErrInvalidScale
	}
	return nil
}

// Rate returns the amount configured for unit.
func (t RateTable) Rate(unit RateUnit) (decimal.Decimal, bool) {
	amount, ok := t.Rates[unit]
	return amount, ok
}

// Scale is the number of decimal places charges are rounded to.
func (t RateTable) Scale() int32 {
	if t.RoundingScale != nil {
		return *t.RoundingScale
	}
	return currencyScale(t.Currency)
}

func (t RateTable) IsWeekend(day time.Time) bool {
	days := t.WeekendDays
	if len(days) == 0 {
		days = defaultWeekendDays
	}
	wd := day.Weekday()
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}

func (t RateTable) TaxRate() decimal.Decimal {
	if t.TaxRatePercent == nil {
		return decimal.Zero
	}
	return *t.TaxRatePercent
}

// ISO 4217 exponents that differ from the default of 2.
var currencyExponents = map[string]int32{
	"BHD": 3,
	"IQD": 3,
	"JOD": 3,
	"JPY": 0,
	"KRW": 0,
	"KWD": 3,
	"OMR": 3,
	"TND": 3,
	"VND": 0,
}

func currencyScale(code string) int32 {
	if exp, ok := currencyExponents[strings.ToUpper(code)]; ok {
		return exp
	}
	return 2
}
