package booking

import (
	"context"
	"time"

	"booking-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

// ReservationLedger answers whether any occupying reservation (or owner
// block) for the listing overlaps the range.
type ReservationLedger interface {
	HasOverlap(ctx context.Context, listingID uuid.UUID, r DateRange) (bool, error)
}

type Verdict struct {
	Available bool
	Reason    ReasonCode
}

func available() Verdict {
	return Verdict{Available: true}
}

func unavailable(reason ReasonCode) Verdict {
	return Verdict{Available: false, Reason: reason}
}

// Err converts a negative verdict into a RejectionError.
func (v Verdict) Err() error {
	if v.Available {
		return nil
	}
	return Reject(v.Reason)
}

type AvailabilityChecker struct {
	clock    clock.Clock
	location *time.Location
}

// NewAvailabilityChecker evaluates "today" and the notice window in loc.
func NewAvailabilityChecker(clk clock.Clock, loc *time.Location) *AvailabilityChecker {
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityChecker{clock: clk, location: loc}
}

// CheckPolicy runs the rules that need no ledger access, first failure wins.
func (c *AvailabilityChecker) CheckPolicy(policy RentalPolicy, r DateRange) Verdict {
	if !r.IsValid() {
		return unavailable(ReasonInvalidRange)
	}
	if r.Start().Before(c.EarliestStart(policy)) {
		return unavailable(ReasonInsufficientNotice)
	}
	if reason, ok := policy.checkDuration(r.Days()); !ok {
		return unavailable(reason)
	}
	return available()
}

// Check runs the full validation sequence including the ledger overlap query.
// Outside a transaction the result is advisory only.
func (c *AvailabilityChecker) Check(ctx context.Context, ledger ReservationLedger, listingID uuid.UUID, policy RentalPolicy, r DateRange) (Verdict, error) {
	if v := c.CheckPolicy(policy, r); !v.Available {
		return v, nil
	}
	conflict, err := ledger.HasOverlap(ctx, listingID, r)
	if err != nil {
		return Verdict{}, err
	}
	if conflict {
		return unavailable(ReasonDateConflict), nil
	}
	return available(), nil
}

// EarliestStart is the first calendar date a rental may begin. A non-zero
// notice is added to the current instant and rounded up to the next midnight.
func (c *AvailabilityChecker) EarliestStart(policy RentalPolicy) time.Time {
	now := c.clock.Now().In(c.location)
	hours := policy.NoticeHours()
	if hours == 0 {
		return DateOf(now)
	}
	ready := now.Add(time.Duration(hours) * time.Hour)
	earliest := DateOf(ready)
	if ready.Hour() != 0 || ready.Minute() != 0 || ready.Second() != 0 || ready.Nanosecond() != 0 {
		earliest = earliest.AddDate(0, 0, 1)
	}
	return earliest
}
