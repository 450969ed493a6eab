//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const insertListing = `
INSERT INTO listings (
    id, name, currency,
    hourly_rate, daily_rate, three_day_rate, weekly_rate, monthly_rate,
    security_deposit_required, security_deposit_amount,
    cancellation_policy, cancellation_fee_amount, grace_period_hours,
    min_rental_days, max_rental_days, min_notice_hours
) VALUES (
    $1, $2, $3,
    $4::numeric, $5::numeric, $6::numeric, $7::numeric, $8::numeric,
    $9, $10::numeric,
    $11, $12::numeric, $13,
    $14, $15, $16
)`

// InsertListing persists the builder's listing and returns its id.
func InsertListing(t *testing.T, db DBLike, b *builder.ListingBuilder) uuid.UUID {
	t.Helper()
	require.NoError(t, TryInsertListing(db, b))
	return b.ID
}

// TryInsertListing returns the insert error so schema constraints can be asserted.
func TryInsertListing(db DBLike, b *builder.ListingBuilder) error {
	rate := func(unit booking.RateUnit) *string {
		amount, ok := b.Rates[unit]
		if !ok {
			return nil
		}
		s := amount.String()
		return &s
	}

	var feeAmount *string
	if b.Cancellation.FeeAmount != nil {
		s := b.Cancellation.FeeAmount.String()
		feeAmount = &s
	}

	_, err := db.Exec(context.Background(), insertListing,
		b.ID, b.Name, b.Currency,
		rate(booking.UnitHour), rate(booking.UnitDay), rate(booking.UnitThreeDay), rate(booking.UnitWeek), rate(booking.UnitMonth),
		b.SecurityDepositRequired, b.SecurityDepositAmount.String(),
		string(b.Cancellation.Policy), feeAmount, b.Cancellation.GracePeriodHours,
		b.MinRentalDays, b.MaxRentalDays, b.MinNoticeHours,
	)
	return err
}

// InsertBooking writes a booking row directly, bypassing the commit path.
func InsertBooking(t *testing.T, db DBLike, listingID uuid.UUID, r booking.DateRange, status booking.Status) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO bookings (id, listing_id, period, status, currency, quoted_total, quoted_deposit, quoted_grand)
		VALUES ($1, $2, daterange($3::date, $4::date, '[)'), $5, 'AED', 0, 0, 0)`,
		id, listingID, r.Start(), r.End(), string(status))
	require.NoError(t, err)
	return id
}

func InsertBlock(t *testing.T, db DBLike, listingID uuid.UUID, r booking.DateRange) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO availability_blocks (listing_id, period, note)
		VALUES ($1, daterange($2::date, $3::date, '[)'), 'maintenance')`,
		listingID, r.Start(), r.End())
	require.NoError(t, err)
}

func CountActiveBookings(t *testing.T, db DBLike, listingID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), `
		SELECT count(*) FROM bookings
		WHERE listing_id = $1 AND status IN ('PENDING', 'CONFIRMED', 'ACTIVE')`,
		listingID).Scan(&n)
	require.NoError(t, err)
	return n
}

func CountQueuedNotifications(t *testing.T, db DBLike, topic string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_jobs WHERE topic = $1 AND status = 'queued'", topic).Scan(&n)
	require.NoError(t, err)
	return n
}

func QuotedGrandTotal(t *testing.T, db DBLike, bookingID uuid.UUID) decimal.Decimal {
	t.Helper()

	var s string
	err := db.QueryRow(context.Background(),
		"SELECT quoted_grand::text FROM bookings WHERE id = $1", bookingID).Scan(&s)
	require.NoError(t, err)
	return decimal.RequireFromString(s)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every table in the public schema.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
