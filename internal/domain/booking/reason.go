package booking

import "errors"

// ReasonCode is the closed set of expected, recoverable booking outcomes.
type ReasonCode string

const (
	ReasonInvalidRange       ReasonCode = "INVALID_RANGE"
	ReasonInsufficientNotice ReasonCode = "INSUFFICIENT_NOTICE"
	ReasonBelowMinDuration   ReasonCode = "BELOW_MIN_DURATION"
	ReasonExceedsMaxDuration ReasonCode = "EXCEEDS_MAX_DURATION"
	ReasonDateConflict       ReasonCode = "DATE_CONFLICT"
	ReasonNoApplicableRate   ReasonCode = "NO_APPLICABLE_RATE"
)

func (c ReasonCode) String() string {
	return string(c)
}

func (c ReasonCode) IsValid() bool {
	switch c {
	case ReasonInvalidRange, ReasonInsufficientNotice, ReasonBelowMinDuration,
		ReasonExceedsMaxDuration, ReasonDateConflict, ReasonNoApplicableRate:
		return true
	default:
		return false
	}
}

// RejectionError carries a ReasonCode through error returns.
type RejectionError struct {
	Reason ReasonCode
	cause  error
}

func Reject(reason ReasonCode) error {
	return &RejectionError{Reason: reason}
}

// RejectWithCause keeps cause reachable through errors.Is.
func RejectWithCause(reason ReasonCode, cause error) error {
	return &RejectionError{Reason: reason, cause: cause}
}

func (e *RejectionError) Error() string {
	if e.cause != nil {
		return "booking rejected: " + string(e.Reason) + ": " + e.cause.Error()
	}
	return "booking rejected: " + string(e.Reason)
}

func (e *RejectionError) Unwrap() error {
	return e.cause
}

// ReasonOf extracts the ReasonCode from err, if any.
func ReasonOf(err error) (ReasonCode, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}

// IsReason reports whether err is a rejection with the given reason.
func IsReason(err error, reason ReasonCode) bool {
	got, ok := ReasonOf(err)
	return ok && got == reason
}
