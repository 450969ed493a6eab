//go:build unit

package booking_test

import (
	"testing"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/pkg/ptr"
	"booking-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
)

func TestCancellationTerms_QuoteCancellation(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rentalStart := builder.Date(2025, 3, 10)

	cases := []struct {
		name   string
		policy booking.CancellationPolicy
		fee    *int64
		grace  *int
		at     time.Time
		free   bool
		want   string
	}{
		{"strict charges immediately", booking.CancellationStrict, ptr.Of[int64](100), ptr.Of(24), createdAt.Add(5 * time.Minute), false, "100"},
		{"strict without a fee amount", booking.CancellationStrict, nil, nil, createdAt, false, "0"},
		{"flexible inside grace", booking.CancellationFlexible, ptr.Of[int64](100), ptr.Of(24), createdAt.Add(23 * time.Hour), true, "0"},
		{"flexible at grace boundary", booking.CancellationFlexible, ptr.Of[int64](100), ptr.Of(24), createdAt.Add(24 * time.Hour), true, "0"},
		{"flexible after grace", booking.CancellationFlexible, ptr.Of[int64](100), ptr.Of(24), createdAt.Add(25 * time.Hour), false, "100"},
		{"flexible without grace", booking.CancellationFlexible, ptr.Of[int64](100), nil, createdAt, false, "100"},
		{"free until rental start", booking.CancellationFree, ptr.Of[int64](100), nil, rentalStart.Add(-time.Hour), true, "0"},
		{"free after rental start", booking.CancellationFree, ptr.Of[int64](100), nil, rentalStart.Add(time.Hour), false, "100"},
		{"free with grace expired", booking.CancellationFree, ptr.Of[int64](100), ptr.Of(48), createdAt.Add(49 * time.Hour), false, "100"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			terms := builder.NewListingBuilder().WithCancellation(c.policy, c.fee, c.grace).BuildRateTable().Cancellation

			q := terms.QuoteCancellation(createdAt, rentalStart, c.at)

			assert.Equal(t, c.policy, q.Policy)
			assert.Equal(t, c.free, q.Free)
			assertDecimal(t, c.want, q.Fee)
			if c.free {
				assert.NotNil(t, q.FreeUntil)
			}
		})
	}
}
