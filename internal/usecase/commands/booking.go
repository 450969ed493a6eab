package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	createBookingEndpoint = "POST /api/listings/:id/bookings"

	NotificationKindBooking   = "booking"
	NotificationTopicCreated  = "booking_created"
	defaultIdempotencyTTLHour = 24
)

type CreateBookingInput struct {
	ListingID uuid.UUID
	Range     booking.DateRange
	// IdempotencyKey is optional; an empty key disables replay protection.
	IdempotencyKey string
}

type CreateBookingResult struct {
	BookingID  uuid.UUID
	Quote      booking.Quote
	IsReplayed bool
}

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking.go -package=mock_commands
type BookingCommands interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	checker        *booking.AvailabilityChecker
	clock          clock.Clock
	idempotencyTTL time.Duration
}

func NewBookingCommands(uow shared.UnitOfWork, checker *booking.AvailabilityChecker, clock clock.Clock, cfg config.Config) BookingCommands {
	ttl := cfg.Booking.IdempotencyTTL
	if ttl <= 0 {
		ttl = defaultIdempotencyTTLHour * time.Hour
	}
	return &bookingCommandsImpl{
		uow:            uow,
		checker:        checker,
		clock:          clock,
		idempotencyTTL: ttl,
	}
}

// CreateBooking re-runs the full availability check and inserts a PENDING
// booking inside one serializable transaction holding the listing's row lock.
// A competing commit that won the race makes this one report DATE_CONFLICT.
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	requestHash := calculateRequestHash(in)

	var result *CreateBookingResult
	err := c.uow.WithinSerializable(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = nil

		listing, err := tx.Listings().LockForUpdate(ctx, in.ListingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrListingNotFound
			}
			return err
		}
		if err := listing.CheckBookable(); err != nil {
			return err
		}

		if in.IdempotencyKey != "" {
			replay, err := c.replay(ctx, tx, in.IdempotencyKey, requestHash)
			if err != nil {
				return err
			}
			if replay != nil {
				result = replay
				return nil
			}
		}

		verdict, err := c.checker.Check(ctx, tx.Reads(), listing.ID, listing.Policy, in.Range)
		if err != nil {
			return err
		}
		if !verdict.Available {
			return verdict.Err()
		}

		breakdown, err := booking.CalculatePrice(listing.Rates, listing.Policy, in.Range)
		if err != nil {
			return err
		}

		now := c.clock.Now()
		res, err := booking.NewPendingReservation(listing.ID, in.Range, breakdown.Quote(), now)
		if err != nil {
			return err
		}

		if err := tx.Bookings().Create(ctx, res); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return booking.Reject(booking.ReasonDateConflict)
			}
			return err
		}

		if err := c.enqueueCreatedNotification(ctx, tx, res, now); err != nil {
			return err
		}

		if in.IdempotencyKey != "" {
			err := tx.Idempotency().Insert(ctx, shared.IdempotencyRecord{
				Key:         in.IdempotencyKey,
				Endpoint:    createBookingEndpoint,
				RequestHash: requestHash,
				BookingID:   res.ID(),
				ExpiresAt:   now.Add(c.idempotencyTTL),
			})
			if err != nil {
				if infra.IsKind(err, infra.KindDuplicateKey) {
					return errs.ErrIdempotencyInProgress
				}
				return err
			}
		}

		result = &CreateBookingResult{BookingID: res.ID(), Quote: res.Quote()}
		return nil
	})
	if err != nil {
		return nil, classifyCommitError(err)
	}

	if !result.IsReplayed {
		slog.Info("Booking created",
			"booking_id", result.BookingID.String(),
			"listing_id", in.ListingID.String(),
			"range", in.Range.String())
	}
	return result, nil
}

func (c *bookingCommandsImpl) replay(ctx context.Context, tx shared.Tx, key, requestHash string) (*CreateBookingResult, error) {
	rec, err := tx.Reads().IdempotencyByKey(ctx, key)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if rec.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReuse
	}

	res, err := tx.Reads().BookingByID(ctx, rec.BookingID)
	if err != nil {
		return nil, err
	}
	return &CreateBookingResult{BookingID: res.ID(), Quote: res.Quote(), IsReplayed: true}, nil
}

type bookingCreatedPayload struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Status     string    `json:"status"`
	Currency   string    `json:"currency"`
	GrandTotal string    `json:"grand_total"`
}

func (c *bookingCommandsImpl) enqueueCreatedNotification(ctx context.Context, tx shared.Tx, res *booking.Reservation, now time.Time) error {
	payload, err := json.Marshal(bookingCreatedPayload{
		BookingID:  res.ID(),
		ListingID:  res.ListingID(),
		StartDate:  res.DateRange().Start().Format(time.DateOnly),
		EndDate:    res.DateRange().End().Format(time.DateOnly),
		Status:     res.Status().String(),
		Currency:   res.Quote().Currency,
		GrandTotal: res.Quote().GrandTotal.String(),
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, NotificationKindBooking, NotificationTopicCreated, payload, now)
}

// classifyCommitError keeps business outcomes as they are and marks anything
// else as a retryable storage failure. No partial writes exist at this point.
func classifyCommitError(err error) error {
	if _, ok := booking.ReasonOf(err); ok {
		return err
	}
	switch {
	case errors.Is(err, errs.ErrListingNotFound),
		errors.Is(err, errs.ErrIdempotencyKeyReuse),
		errors.Is(err, errs.ErrIdempotencyInProgress),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case infra.IsKind(err, infra.KindConflict):
		return booking.Reject(booking.ReasonDateConflict)
	}
	return errs.Mark(err, errs.ErrStorageUnavailable)
}

func calculateRequestHash(in CreateBookingInput) string {
	hash := sha256.Sum256([]byte(in.ListingID.String() + "|" + in.Range.String()))
	return hex.EncodeToString(hash[:])
}
