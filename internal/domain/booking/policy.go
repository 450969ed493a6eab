package booking

import "errors"

var (
	ErrInvalidMinRentalDays = errors.New("minimum rental days must be at least 1")
	ErrInvalidRentalBounds  = errors.New("minimum rental days exceed maximum rental days")
	ErrNegativeNoticeHours  = errors.New("notice hours cannot be negative")
)

// RentalPolicy holds per-listing booking constraints. Age and mileage limits
// are informational and surfaced to callers; the engine does not enforce them.
type RentalPolicy struct {
	MinRentalDays  int
	MaxRentalDays  *int
	MinNoticeHours *int

	MinAge              *int
	MaxAge              *int
	MaxMileagePerDay    *int
	MaxMileagePerRental *int
}

func (p RentalPolicy) Validate() error {
	if p.MinRentalDays < 1 {
		return ErrInvalidMinRentalDays
	}
	if p.MaxRentalDays != nil && p.MinRentalDays > *p.MaxRentalDays {
		return ErrInvalidRentalBounds
	}
	if p.MinNoticeHours != nil && *p.MinNoticeHours < 0 {
		return ErrNegativeNoticeHours
	}
	return nil
}

func (p RentalPolicy) NoticeHours() int {
	if p.MinNoticeHours == nil {
		return 0
	}
	return *p.MinNoticeHours
}

// checkDuration applies the min/max rental length rules.
func (p RentalPolicy) checkDuration(days int) (ReasonCode, bool) {
	minDays := p.MinRentalDays
	if minDays < 1 {
		minDays = 1
	}
	if days < minDays {
		return ReasonBelowMinDuration, false
	}
	if p.MaxRentalDays != nil && days > *p.MaxRentalDays {
		return ReasonExceedsMaxDuration, false
	}
	return "", true
}
