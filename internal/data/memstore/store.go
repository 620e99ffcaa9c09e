// Package memstore keeps every collection in process memory behind one lock.
// Transactions run one at a time on a cloned snapshot that replaces the live
// state only when fn succeeds, so a failed or panicking fn leaves no trace.
package memstore

import (
	"context"
	"fmt"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/repository"
	"boxing-booking/pkg/database"
)

type state struct {
	sessions      map[string]entity.Session
	boxers        map[string]entity.Boxer
	gyms          map[string]entity.Gym
	slots         map[string]entity.Slot
	bookings      map[string]entity.Booking
	counters      map[string]int64
	notifications map[string]entity.Notification
}

func newState() *state {
	return &state{
		sessions:      map[string]entity.Session{},
		boxers:        map[string]entity.Boxer{},
		gyms:          map[string]entity.Gym{},
		slots:         map[string]entity.Slot{},
		bookings:      map[string]entity.Booking{},
		counters:      map[string]int64{},
		notifications: map[string]entity.Notification{},
	}
}

func (s *state) clone() *state {
	return &state{
		sessions:      copyMap(s.sessions),
		boxers:        copyMap(s.boxers),
		gyms:          copyMap(s.gyms),
		slots:         copyMap(s.slots),
		bookings:      copyMap(s.bookings),
		counters:      copyMap(s.counters),
		notifications: copyMap(s.notifications),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type Store struct {
	sem  chan struct{}
	live *state
}

// New returns a Repository backed by a fresh in-memory store. Sessions are
// read-only through the Repository, so any the caller needs are seeded here.
func New(sessions ...entity.Session) *repository.Repository {
	s := &Store{sem: make(chan struct{}, 1), live: newState()}
	for _, session := range sessions {
		s.live.sessions[session.TokenDigest] = session
	}
	repo := s.repository(&view{store: s})
	repo.Tx = s
	return repo
}

func (s *Store) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", database.ErrTimeout, err)
	}
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", database.ErrTimeout, ctx.Err())
	}
}

func (s *Store) release() {
	<-s.sem
}

func (s *Store) WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	work := s.live.clone()
	scoped := s.repository(&view{store: s, tx: work})
	scoped.Tx = nested{scoped}

	if err := fn(scoped); err != nil {
		return err
	}
	s.live = work
	return nil
}

func (s *Store) repository(v *view) *repository.Repository {
	return &repository.Repository{
		Session:      &sessionRepo{v},
		Boxer:        &boxerRepo{v},
		Gym:          &gymRepo{v},
		Slot:         &slotRepo{v},
		Booking:      &bookingRepo{v},
		Counter:      &counterRepo{v},
		Notification: &notificationRepo{v},
	}
}

type nested struct {
	repo *repository.Repository
}

func (n nested) WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	return fn(n.repo)
}

// view routes calls either to the open transaction snapshot or, holding the
// lock for the duration of one call, to the live state.
type view struct {
	store *Store
	tx    *state
}

func (v *view) do(ctx context.Context, fn func(st *state) error) error {
	if v.tx != nil {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", database.ErrTimeout, err)
		}
		return fn(v.tx)
	}
	if err := v.store.acquire(ctx); err != nil {
		return err
	}
	defer v.store.release()
	return fn(v.store.live)
}
