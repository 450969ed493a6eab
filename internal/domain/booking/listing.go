package booking

import (
	"github.com/google/uuid"
)

// Listing bundles the owner-maintained pricing and rental rules for one vehicle.
type Listing struct {
	ID     uuid.UUID
	Name   string
	Rates  RateTable
	Policy RentalPolicy
}

func (l Listing) Validate() error {
	if err := l.Rates.Validate(); err != nil {
		return err
	}
	return l.Policy.Validate()
}

// CheckBookable fails closed on a listing whose stored configuration is
// invalid. No rate can be quoted from it, so it is rejected as NO_APPLICABLE_RATE.
func (l Listing) CheckBookable() error {
	if err := l.Validate(); err != nil {
		return RejectWithCause(ReasonNoApplicableRate, err)
	}
	return nil
}
