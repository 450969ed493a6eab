package shared

import (
	"context"
	"time"

	"booking-engine/internal/domain/booking"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: ReadCommitted transaction with retry on serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinSerializable: Serializable transaction with retry; used for the check-and-insert of a booking
	WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: Single statement reads outside any transaction (advisory only)
	Reads() Reads
}

type Tx interface {
	Listings() ListingRepository
	Bookings() BookingRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Reads() Reads
}

// Reads also serves as the booking.ReservationLedger for the scope it was obtained from.
type Reads interface {
	booking.ReservationLedger
	ListingByID(ctx context.Context, id uuid.UUID) (*booking.Listing, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error)
	IdempotencyByKey(ctx context.Context, key string) (*IdempotencyRecord, error)
}

type ListingRepository interface {
	// LockForUpdate reads the latest listing row and holds its lock until the transaction ends.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*booking.Listing, error)
}

type BookingRepository interface {
	Create(ctx context.Context, res *booking.Reservation) error
}

type IdempotencyRepository interface {
	Insert(ctx context.Context, rec IdempotencyRecord) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]NotificationJob, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt time.Time) error
}
