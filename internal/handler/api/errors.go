package api

import (
	"net/http"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const retryAfterSeconds = "1"

var reasonMessages = map[booking.ReasonCode]string{
	booking.ReasonInvalidRange:       "End date must be after start date",
	booking.ReasonInsufficientNotice: "Start date is inside the listing's notice window",
	booking.ReasonBelowMinDuration:   "Rental is shorter than the minimum duration",
	booking.ReasonExceedsMaxDuration: "Rental is longer than the maximum duration",
	booking.ReasonDateConflict:       "Dates are no longer available",
	booking.ReasonNoApplicableRate:   "Listing has no rate for this rental",
}

func reasonStatus(reason booking.ReasonCode) int {
	switch reason {
	case booking.ReasonInvalidRange:
		return http.StatusBadRequest
	case booking.ReasonDateConflict:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// abortWithUseCaseError maps use case failures onto statuses. Rejections keep
// their reason code in the body so clients can branch on it.
func abortWithUseCaseError(c *gin.Context, err error) {
	if reason, ok := booking.ReasonOf(err); ok {
		httperr.AbortWithReason(c, reasonStatus(reason), err, reason.String(), reasonMessages[reason])
		return
	}

	switch {
	case errs.Is(err, errs.ErrListingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
	case errs.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errs.Is(err, errs.ErrBookingNotCancellable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking can no longer be cancelled", nil)
	case errs.Is(err, errs.ErrIdempotencyKeyReuse):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Idempotency key was used with a different request", nil)
	case errs.Is(err, errs.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Request with this idempotency key is being processed", nil)
	case errs.Is(err, errs.ErrStorageUnavailable):
		c.Header("Retry-After", retryAfterSeconds)
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Service temporarily unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

// abortInvalidRange answers malformed dates the same way as an inverted range.
func abortInvalidRange(c *gin.Context, err error) {
	reason := booking.ReasonInvalidRange
	httperr.AbortWithReason(c, http.StatusBadRequest, err, reason.String(), "Dates must be YYYY-MM-DD")
}
