package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type CancellationQuote struct {
	Policy CancellationPolicy
	Free   bool
	Fee    decimal.Decimal
	// FreeUntil is the last instant at which cancelling costs nothing; nil when never free.
	FreeUntil *time.Time
}

// QuoteCancellation returns what cancelling a booking created at createdAt
// for a rental starting at rentalStart would cost at the instant at.
// Performing the cancellation is outside this package.
func (t CancellationTerms) QuoteCancellation(createdAt, rentalStart, at time.Time) CancellationQuote {
	fee := decimal.Zero
	if t.FeeAmount != nil {
		fee = *t.FeeAmount
	}

	var freeUntil *time.Time
	switch t.Policy {
	case CancellationFlexible:
		if t.GracePeriodHours != nil {
			until := createdAt.Add(time.Duration(*t.GracePeriodHours) * time.Hour)
			freeUntil = &until
		}
	case CancellationFree:
		until := rentalStart
		if t.GracePeriodHours != nil {
			until = createdAt.Add(time.Duration(*t.GracePeriodHours) * time.Hour)
		}
		freeUntil = &until
	}

	q := CancellationQuote{Policy: t.Policy, FreeUntil: freeUntil, Fee: fee}
	if freeUntil != nil && !at.After(*freeUntil) {
		q.Free = true
		q.Fee = decimal.Zero
	}
	return q
}
