//go:build unit || e2e

// Package memstore is an in-memory shared.UnitOfWork for usecase and job tests.
// Transactions are fully serialized and work on a copy of the state that is
// swapped in on commit, so a failing fn leaves nothing behind.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/infra"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Job struct {
	shared.NotificationJob
	RunAt     time.Time
	Status    string
	LastError string
}

type state struct {
	listings    map[uuid.UUID]*booking.Listing
	bookings    map[uuid.UUID]*booking.Reservation
	blocks      map[uuid.UUID][]booking.DateRange
	idempotency map[string]shared.IdempotencyRecord
	jobs        []*Job
}

func (s *state) clone() *state {
	jobs := make([]*Job, len(s.jobs))
	for i, j := range s.jobs {
		cp := *j
		jobs[i] = &cp
	}
	blocks := make(map[uuid.UUID][]booking.DateRange, len(s.blocks))
	for k, v := range s.blocks {
		blocks[k] = slices.Clone(v)
	}
	return &state{
		listings:    maps.Clone(s.listings),
		bookings:    maps.Clone(s.bookings),
		blocks:      blocks,
		idempotency: maps.Clone(s.idempotency),
		jobs:        jobs,
	}
}

type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time

	// failures consumed by the next matching call inside a transaction
	createErr  error
	overlapErr error

	commits int
}

// New returns an empty store. now feeds idempotency expiry checks.
func New(now func() time.Time) *Store {
	return &Store{
		state: &state{
			listings:    map[uuid.UUID]*booking.Listing{},
			bookings:    map[uuid.UUID]*booking.Reservation{},
			blocks:      map[uuid.UUID][]booking.DateRange{},
			idempotency: map[string]shared.IdempotencyRecord{},
		},
		now: now,
	}
}

func (s *Store) AddListing(l *booking.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.listings[l.ID] = l
}

func (s *Store) AddBooking(r *booking.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.bookings[r.ID()] = r
}

func (s *Store) AddBlock(listingID uuid.UUID, r booking.DateRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.blocks[listingID] = append(s.state.blocks[listingID], r)
}

func (s *Store) AddIdempotency(rec shared.IdempotencyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.idempotency[rec.Key] = rec
}

func (s *Store) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := job
	s.state.jobs = append(s.state.jobs, &cp)
}

// FailNextCreate makes the next booking insert return err.
func (s *Store) FailNextCreate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createErr = err
}

// FailNextOverlap makes the next overlap query return err.
func (s *Store) FailNextOverlap(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlapErr = err
}

func (s *Store) Bookings() []*booking.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(maps.Values(s.state.bookings))
}

func (s *Store) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, len(s.state.jobs))
	for i, j := range s.state.jobs {
		out[i] = *j
	}
	return out
}

func (s *Store) Idempotency(key string) (shared.IdempotencyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.state.idempotency[key]
	return rec, ok
}

func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.run(ctx, fn)
}

func (s *Store) WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.run(ctx, fn)
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	if err := fn(ctx, &tx{store: s, st: staged}); err != nil {
		return err
	}
	s.state = staged
	s.commits++
	return nil
}

// Reads runs each call against the committed state.
func (s *Store) Reads() shared.Reads {
	return &lockedReads{store: s}
}

type lockedReads struct {
	store *Store
}

func (r *lockedReads) inner() *reads {
	return &reads{store: r.store, st: r.store.state}
}

func (r *lockedReads) HasOverlap(ctx context.Context, listingID uuid.UUID, dr booking.DateRange) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.inner().HasOverlap(ctx, listingID, dr)
}

func (r *lockedReads) ListingByID(ctx context.Context, id uuid.UUID) (*booking.Listing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.inner().ListingByID(ctx, id)
}

func (r *lockedReads) BookingByID(ctx context.Context, id uuid.UUID) (*booking.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.inner().BookingByID(ctx, id)
}

func (r *lockedReads) IdempotencyByKey(ctx context.Context, key string) (*shared.IdempotencyRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.inner().IdempotencyByKey(ctx, key)
}

// reads assumes the caller holds store.mu.
type reads struct {
	store *Store
	st    *state
}

func (r *reads) HasOverlap(_ context.Context, listingID uuid.UUID, dr booking.DateRange) (bool, error) {
	if err := r.store.overlapErr; err != nil {
		r.store.overlapErr = nil
		return false, infra.WrapRepoErr("failed to check overlap", err)
	}
	return r.st.overlaps(listingID, dr, uuid.Nil), nil
}

func (r *reads) ListingByID(_ context.Context, id uuid.UUID) (*booking.Listing, error) {
	l, ok := r.st.listings[id]
	if !ok {
		return nil, infra.WrapRepoErr("listing not found", pgx.ErrNoRows)
	}
	return l, nil
}

func (r *reads) BookingByID(_ context.Context, id uuid.UUID) (*booking.Reservation, error) {
	b, ok := r.st.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", pgx.ErrNoRows)
	}
	return b, nil
}

func (r *reads) IdempotencyByKey(_ context.Context, key string) (*shared.IdempotencyRecord, error) {
	rec, ok := r.st.idempotency[key]
	if !ok || !rec.ExpiresAt.After(r.store.now()) {
		return nil, infra.WrapRepoErr("idempotency key not found", pgx.ErrNoRows)
	}
	return &rec, nil
}

func (s *state) overlaps(listingID uuid.UUID, dr booking.DateRange, skip uuid.UUID) bool {
	for _, b := range s.bookings {
		if b.ID() == skip || b.ListingID() != listingID || !b.IsOccupying() {
			continue
		}
		if b.DateRange().Overlaps(dr) {
			return true
		}
	}
	for _, block := range s.blocks[listingID] {
		if block.Overlaps(dr) {
			return true
		}
	}
	return false
}

type tx struct {
	store *Store
	st    *state
}

func (t *tx) Listings() shared.ListingRepository {
	return (*listingRepo)(t)
}

func (t *tx) Bookings() shared.BookingRepository {
	return (*bookingRepo)(t)
}

func (t *tx) Idempotency() shared.IdempotencyRepository {
	return (*idempotencyRepo)(t)
}

func (t *tx) Notifications() shared.NotificationRepository {
	return (*notificationRepo)(t)
}

func (t *tx) Reads() shared.Reads {
	return &reads{store: t.store, st: t.st}
}

type listingRepo tx

func (r *listingRepo) LockForUpdate(ctx context.Context, id uuid.UUID) (*booking.Listing, error) {
	return (&reads{store: r.store, st: r.st}).ListingByID(ctx, id)
}

type bookingRepo tx

// Create enforces the same no-overlap rule as the database exclusion constraint.
func (r *bookingRepo) Create(_ context.Context, res *booking.Reservation) error {
	if err := r.store.createErr; err != nil {
		r.store.createErr = nil
		return infra.WrapRepoErr("failed to create booking", err)
	}
	if res.IsOccupying() && r.st.overlaps(res.ListingID(), res.DateRange(), res.ID()) {
		return infra.WrapRepoErr("failed to create booking", &pgconn.PgError{Code: infra.PgCodeExclusionViolation})
	}
	r.st.bookings[res.ID()] = res
	return nil
}

type idempotencyRepo tx

func (r *idempotencyRepo) Insert(_ context.Context, rec shared.IdempotencyRecord) error {
	if cur, ok := r.st.idempotency[rec.Key]; ok && cur.ExpiresAt.After(r.store.now()) {
		return infra.WrapRepoErr("failed to insert idempotency key", &pgconn.PgError{Code: infra.PgCodeUniqueViolation})
	}
	r.st.idempotency[rec.Key] = rec
	return nil
}

func (r *idempotencyRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, rec := range r.st.idempotency {
		if !rec.ExpiresAt.After(now) {
			delete(r.st.idempotency, k)
			n++
		}
	}
	return n, nil
}

type notificationRepo tx

func (r *notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.st.jobs = append(r.st.jobs, &Job{
		NotificationJob: shared.NotificationJob{ID: uuid.New(), Kind: kind, Topic: topic, Payload: payload},
		RunAt:           runAt,
		Status:          shared.NotificationStatusQueued,
	})
	return nil
}

func (r *notificationRepo) ClaimDue(_ context.Context, now time.Time, limit int) ([]shared.NotificationJob, error) {
	var out []shared.NotificationJob
	for _, j := range r.st.jobs {
		if len(out) == limit {
			break
		}
		if j.Status == shared.NotificationStatusQueued && !j.RunAt.After(now) {
			out = append(out, j.NotificationJob)
		}
	}
	return out, nil
}

func (r *notificationRepo) find(id uuid.UUID) *Job {
	for _, j := range r.st.jobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}

func (r *notificationRepo) MarkSent(_ context.Context, id uuid.UUID) error {
	if j := r.find(id); j != nil {
		j.Attempts++
		j.Status = shared.NotificationStatusSent
		j.LastError = ""
	}
	return nil
}

func (r *notificationRepo) MarkFailed(_ context.Context, id uuid.UUID, lastError string, retryAt time.Time) error {
	if j := r.find(id); j != nil {
		j.Attempts++
		j.LastError = lastError
		j.RunAt = retryAt
		if j.Attempts >= shared.MaxNotificationAttempts {
			j.Status = shared.NotificationStatusFailed
		}
	}
	return nil
}
