package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/repository"
)

type slotRepo struct{ v *view }

func (r *slotRepo) Create(ctx context.Context, slot *entity.Slot) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.slots[slot.SlotID]; ok {
			return fmt.Errorf("create slot %s: %w", slot.SlotID, repository.ErrDuplicate)
		}
		st.slots[slot.SlotID] = *slot
		return nil
	})
}

func (r *slotRepo) FindByID(ctx context.Context, slotID string) (*entity.Slot, error) {
	var out *entity.Slot
	err := r.v.do(ctx, func(st *state) error {
		if s, ok := st.slots[slotID]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *slotRepo) FindByIDForUpdate(ctx context.Context, slotID string) (*entity.Slot, error) {
	return r.FindByID(ctx, slotID)
}

func (r *slotRepo) Update(ctx context.Context, slot *entity.Slot) error {
	return r.v.do(ctx, func(st *state) error {
		cur, ok := st.slots[slot.SlotID]
		if !ok {
			return fmt.Errorf("slot %s: %w", slot.SlotID, repository.ErrNotFound)
		}
		if slot.CurrentBookings < 0 || slot.CurrentBookings > slot.MaxBoxers {
			return fmt.Errorf("update slot %s: capacity check violated", slot.SlotID)
		}
		cur.Date = slot.Date
		cur.StartTime = slot.StartTime
		cur.EndTime = slot.EndTime
		cur.MaxBoxers = slot.MaxBoxers
		cur.CurrentBookings = slot.CurrentBookings
		cur.Status = slot.Status
		cur.UpdatedAt = slot.UpdatedAt
		st.slots[slot.SlotID] = cur
		return nil
	})
}

func (r *slotRepo) AdjustBookings(ctx context.Context, slotID string, delta int, now time.Time) (*entity.Slot, error) {
	var out *entity.Slot
	err := r.v.do(ctx, func(st *state) error {
		cur, ok := st.slots[slotID]
		if !ok {
			return fmt.Errorf("slot %s: %w", slotID, repository.ErrNotFound)
		}
		next := max(0, cur.CurrentBookings+delta)
		if next > cur.MaxBoxers {
			return fmt.Errorf("adjust bookings of slot %s by %d: capacity check violated", slotID, delta)
		}
		cur.CurrentBookings = next
		cur.UpdatedAt = now
		st.slots[slotID] = cur
		out = &cur
		return nil
	})
	return out, err
}

func (r *slotRepo) FindActiveByGymAndDate(ctx context.Context, gymID, date string) ([]*entity.Slot, error) {
	return r.filter(ctx, func(s *entity.Slot) bool {
		return s.GymID == gymID && s.Date == date && s.Open()
	}, 0)
}

func (r *slotRepo) ListByGym(ctx context.Context, gymID string, filter entity.SlotStatusFilter) ([]*entity.Slot, error) {
	return r.filter(ctx, func(s *entity.Slot) bool {
		if s.GymID != gymID || s.Archived {
			return false
		}
		return filter == "" || filter == entity.SlotFilterAll || string(s.Status) == string(filter)
	}, 0)
}

func (r *slotRepo) ListOpen(ctx context.Context, q entity.SlotQuery) ([]*entity.Slot, error) {
	return r.filter(ctx, func(s *entity.Slot) bool {
		switch {
		case !s.Open():
			return false
		case q.DateFrom != "" && s.Date < q.DateFrom:
			return false
		case q.DateTo != "" && s.Date > q.DateTo:
			return false
		case q.GymID != "" && s.GymID != q.GymID:
			return false
		}
		return true
	}, q.Limit)
}

func (r *slotRepo) filter(ctx context.Context, keep func(s *entity.Slot) bool, limit int) ([]*entity.Slot, error) {
	var out []*entity.Slot
	err := r.v.do(ctx, func(st *state) error {
		for _, s := range st.slots {
			s := s
			if keep(&s) {
				out = append(out, &s)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].SlotID < out[j].SlotID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *slotRepo) LockGym(ctx context.Context, gymID string) error {
	return ctx.Err()
}

func (r *slotRepo) ListStaleIDs(ctx context.Context, before string) ([]string, error) {
	slots, err := r.filter(ctx, func(s *entity.Slot) bool {
		return !s.Archived && s.Date < before
	}, 0)
	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.SlotID)
	}
	return ids, err
}

func (r *slotRepo) Archive(ctx context.Context, slotID string, now time.Time) (bool, error) {
	var changed bool
	err := r.v.do(ctx, func(st *state) error {
		cur, ok := st.slots[slotID]
		if !ok || cur.Archived {
			return nil
		}
		cur.Archived = true
		cur.ArchivedAt = &now
		cur.UpdatedAt = now
		st.slots[slotID] = cur
		changed = true
		return nil
	})
	return changed, err
}
