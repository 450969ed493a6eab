package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidStatus = errors.New("invalid booking status")

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// OccupyingStatuses reserve calendar time against double booking.
var OccupyingStatuses = []Status{StatusPending, StatusConfirmed, StatusActive}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsCancellable reports whether the booking has not started yet.
func (s Status) IsCancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsOccupying() bool {
	for _, o := range OccupyingStatuses {
		if s == o {
			return true
		}
	}
	return false
}

// OccupyingStatusStrings is OccupyingStatuses as plain strings for query parameters.
func OccupyingStatusStrings() []string {
	out := make([]string, len(OccupyingStatuses))
	for i, s := range OccupyingStatuses {
		out[i] = s.String()
	}
	return out
}

// Quote is the price snapshot stored with a booking at creation time.
type Quote struct {
	Currency        string
	TotalPrice      decimal.Decimal
	SecurityDeposit decimal.Decimal
	GrandTotal      decimal.Decimal
}

// Reservation is a ledger entry. The engine only ever creates PENDING ones;
// later transitions belong to payment and lifecycle collaborators.
type Reservation struct {
	id        uuid.UUID
	listingID uuid.UUID
	dateRange DateRange
	status    Status
	quote     Quote
	createdAt time.Time
}

func NewPendingReservation(listingID uuid.UUID, r DateRange, quote Quote, now time.Time) (*Reservation, error) {
	if !r.IsValid() {
		return nil, Reject(ReasonInvalidRange)
	}
	return &Reservation{
		id:        uuid.New(),
		listingID: listingID,
		dateRange: r,
		status:    StatusPending,
		quote:     quote,
		createdAt: now,
	}, nil
}

func ReconstructReservation(id, listingID uuid.UUID, r DateRange, status Status, quote Quote, createdAt time.Time) *Reservation {
	return &Reservation{
		id:        id,
		listingID: listingID,
		dateRange: r,
		status:    status,
		quote:     quote,
		createdAt: createdAt,
	}
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) ListingID() uuid.UUID { return r.listingID }
func (r *Reservation) DateRange() DateRange { return r.dateRange }
func (r *Reservation) Status() Status       { return r.status }
func (r *Reservation) Quote() Quote         { return r.quote }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) IsOccupying() bool    { return r.status.IsOccupying() }
func (r *Reservation) IsCancellable() bool  { return r.status.IsCancellable() }
