package response

import (
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AvailabilityResponse struct {
	ListingID uuid.UUID `json:"listingId"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Available bool      `json:"available"`
	Reason    *string   `json:"reason"`
}

func FromVerdict(listingID uuid.UUID, r booking.DateRange, v booking.Verdict) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		ListingID: listingID,
		StartDate: r.Start().Format(time.DateOnly),
		EndDate:   r.End().Format(time.DateOnly),
		Available: v.Available,
	}
	if !v.Available {
		reason := v.Reason.String()
		resp.Reason = &reason
	}
	return resp
}

type PriceResponse struct {
	ListingID uuid.UUID `json:"listingId"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Currency  string    `json:"currency"`

	DailyRate          decimal.Decimal `json:"dailyRate"`
	SelectedUnit       string          `json:"selectedUnit"`
	EffectiveDailyRate decimal.Decimal `json:"effectiveDailyRate"`
	TotalDays          int             `json:"totalDays"`
	WeekendDays        int             `json:"weekendDays"`

	BasePrice         decimal.Decimal `json:"basePrice"`
	WeekendAdjustment decimal.Decimal `json:"weekendAdjustment"`
	TaxRate           decimal.Decimal `json:"taxRate"`
	TaxAmount         decimal.Decimal `json:"taxAmount"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	SecurityDeposit   decimal.Decimal `json:"securityDeposit"`
	GrandTotal        decimal.Decimal `json:"grandTotal"`

	PreAuthAmount   decimal.Decimal  `json:"preAuthAmount"`
	WaiverAvailable bool             `json:"waiverAvailable"`
	WaiverCost      *decimal.Decimal `json:"waiverCost,omitempty"`
}

func FromPriceBreakdown(listingID uuid.UUID, r booking.DateRange, b *booking.PriceBreakdown) *PriceResponse {
	resp := &PriceResponse{
		ListingID:          listingID,
		StartDate:          r.Start().Format(time.DateOnly),
		EndDate:            r.End().Format(time.DateOnly),
		Currency:           b.Currency,
		DailyRate:          b.DailyRate,
		SelectedUnit:       b.SelectedUnit.String(),
		EffectiveDailyRate: b.EffectiveDailyRate,
		TotalDays:          b.TotalDays,
		WeekendDays:        b.WeekendDays,
		BasePrice:          b.BasePrice,
		WeekendAdjustment:  b.WeekendAdjustment,
		TaxRate:            b.TaxRate,
		TaxAmount:          b.TaxAmount,
		TotalPrice:         b.TotalPrice,
		SecurityDeposit:    b.SecurityDeposit,
		GrandTotal:         b.GrandTotal,
		PreAuthAmount:      b.PreAuthAmount,
		WaiverAvailable:    b.WaiverAvailable,
	}
	if b.WaiverAvailable {
		cost := b.WaiverCost
		resp.WaiverCost = &cost
	}
	return resp
}

type QuoteResponse struct {
	Currency        string          `json:"currency"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	SecurityDeposit decimal.Decimal `json:"securityDeposit"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
}

func fromQuote(q booking.Quote) QuoteResponse {
	return QuoteResponse{
		Currency:        q.Currency,
		TotalPrice:      q.TotalPrice,
		SecurityDeposit: q.SecurityDeposit,
		GrandTotal:      q.GrandTotal,
	}
}

type CreateBookingResponse struct {
	BookingID uuid.UUID     `json:"bookingId"`
	Status    string        `json:"status"`
	Quote     QuoteResponse `json:"quote"`
	Replayed  bool          `json:"replayed"`
}

func FromCreateBookingResult(res *commands.CreateBookingResult) *CreateBookingResponse {
	return &CreateBookingResponse{
		BookingID: res.BookingID,
		Status:    booking.StatusPending.String(),
		Quote:     fromQuote(res.Quote),
		Replayed:  res.IsReplayed,
	}
}

type BookingResponse struct {
	ID        uuid.UUID     `json:"id"`
	ListingID uuid.UUID     `json:"listingId"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Days      int           `json:"days"`
	Status    string        `json:"status"`
	Quote     QuoteResponse `json:"quote"`
	CreatedAt time.Time     `json:"createdAt"`
}

func FromReservation(r *booking.Reservation) *BookingResponse {
	return &BookingResponse{
		ID:        r.ID(),
		ListingID: r.ListingID(),
		StartDate: r.DateRange().Start().Format(time.DateOnly),
		EndDate:   r.DateRange().End().Format(time.DateOnly),
		Days:      r.DateRange().Days(),
		Status:    r.Status().String(),
		Quote:     fromQuote(r.Quote()),
		CreatedAt: r.CreatedAt(),
	}
}

type CancellationFeeResponse struct {
	BookingID uuid.UUID       `json:"bookingId"`
	Policy    string          `json:"policy"`
	At        time.Time       `json:"at"`
	Free      bool            `json:"free"`
	Fee       decimal.Decimal `json:"fee"`
	Currency  string          `json:"currency"`
	FreeUntil *time.Time      `json:"freeUntil"`
}

func FromCancellationFeeView(v *queries.CancellationFeeView) *CancellationFeeResponse {
	return &CancellationFeeResponse{
		BookingID: v.BookingID,
		Policy:    string(v.Quote.Policy),
		At:        v.At,
		Free:      v.Quote.Free,
		Fee:       v.Quote.Fee,
		Currency:  v.Currency,
		FreeUntil: v.Quote.FreeUntil,
	}
}
