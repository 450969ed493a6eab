package request

import (
	"time"

	"booking-engine/internal/domain/booking"
)

type DateRangeQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

func (q DateRangeQuery) ToDomain() (booking.DateRange, error) {
	return booking.ParseDateRange(q.Start, q.End)
}

type CreateBookingRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

func (r CreateBookingRequest) ToDomain() (booking.DateRange, error) {
	return booking.ParseDateRange(r.StartDate, r.EndDate)
}

type CancellationFeeQuery struct {
	// At is an RFC 3339 instant; empty means now.
	At string `form:"at"`
}

func (q CancellationFeeQuery) Instant() (time.Time, error) {
	if q.At == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, q.At)
}
