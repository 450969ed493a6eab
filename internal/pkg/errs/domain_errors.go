package errs

import "errors"

// Sentinel errors shared by the query and command sides. Business rejections
// are booking.RejectionError values, not sentinels.
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrBookingNotFound = errors.New("booking not found")

	ErrBookingNotCancellable = errors.New("booking can no longer be cancelled")

	// Idempotency errors
	ErrIdempotencyKeyReuse   = errors.New("idempotency key reused with a different request")
	ErrIdempotencyInProgress = errors.New("idempotency in progress")

	// ErrStorageUnavailable marks infrastructure failures that are safe to retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
