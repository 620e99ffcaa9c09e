package memstore

import (
	"context"
	"fmt"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/repository"
)

type boxerRepo struct{ v *view }

func (r *boxerRepo) Create(ctx context.Context, boxer *entity.Boxer) error {
	return r.v.do(ctx, func(st *state) error {
		for _, b := range st.boxers {
			if b.UserID == boxer.UserID || b.BoxerID == boxer.BoxerID {
				return fmt.Errorf("create boxer %s: %w", boxer.BoxerID, repository.ErrDuplicate)
			}
		}
		st.boxers[boxer.BoxerID] = *boxer
		return nil
	})
}

func (r *boxerRepo) FindByID(ctx context.Context, boxerID string) (*entity.Boxer, error) {
	var out *entity.Boxer
	err := r.v.do(ctx, func(st *state) error {
		if b, ok := st.boxers[boxerID]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *boxerRepo) FindByUserID(ctx context.Context, userID string) (*entity.Boxer, error) {
	var out *entity.Boxer
	err := r.v.do(ctx, func(st *state) error {
		for _, b := range st.boxers {
			if b.UserID == userID {
				b := b
				out = &b
				return nil
			}
		}
		return nil
	})
	return out, err
}

type gymRepo struct{ v *view }

func (r *gymRepo) Create(ctx context.Context, gym *entity.Gym) error {
	return r.v.do(ctx, func(st *state) error {
		for _, g := range st.gyms {
			if g.UserID == gym.UserID || g.GymID == gym.GymID {
				return fmt.Errorf("create gym %s: %w", gym.GymID, repository.ErrDuplicate)
			}
		}
		st.gyms[gym.GymID] = *gym
		return nil
	})
}

func (r *gymRepo) FindByID(ctx context.Context, gymID string) (*entity.Gym, error) {
	var out *entity.Gym
	err := r.v.do(ctx, func(st *state) error {
		if g, ok := st.gyms[gymID]; ok {
			out = &g
		}
		return nil
	})
	return out, err
}

func (r *gymRepo) FindByUserID(ctx context.Context, userID string) (*entity.Gym, error) {
	var out *entity.Gym
	err := r.v.do(ctx, func(st *state) error {
		for _, g := range st.gyms {
			if g.UserID == userID {
				g := g
				out = &g
				return nil
			}
		}
		return nil
	})
	return out, err
}

type counterRepo struct{ v *view }

func (r *counterRepo) Increment(ctx context.Context, name string) (int64, error) {
	var out int64
	err := r.v.do(ctx, func(st *state) error {
		st.counters[name]++
		out = st.counters[name]
		return nil
	})
	return out, err
}

func (r *counterRepo) Get(ctx context.Context, name string) (int64, error) {
	var out int64
	err := r.v.do(ctx, func(st *state) error {
		out = st.counters[name]
		return nil
	})
	return out, err
}

type sessionRepo struct{ v *view }

func (r *sessionRepo) FindValidSession(ctx context.Context, tokenDigest string, now time.Time) (*entity.Session, error) {
	var out *entity.Session
	err := r.v.do(ctx, func(st *state) error {
		if s, ok := st.sessions[tokenDigest]; ok && s.Valid(now) {
			out = &s
		}
		return nil
	})
	return out, err
}
