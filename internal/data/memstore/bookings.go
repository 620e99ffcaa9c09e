package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/repository"
)

type bookingRepo struct{ v *view }

func (r *bookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.bookings[booking.BookingID]; ok {
			return fmt.Errorf("create booking %s: %w", booking.BookingID, repository.ErrDuplicate)
		}
		if booking.Active() {
			for _, b := range st.bookings {
				if b.SlotID == booking.SlotID && b.BoxerID == booking.BoxerID && b.Active() {
					return fmt.Errorf("create booking %s: %w", booking.BookingID, repository.ErrDuplicate)
				}
			}
		}
		st.bookings[booking.BookingID] = *booking
		return nil
	})
}

func (r *bookingRepo) FindByID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	var out *entity.Booking
	err := r.v.do(ctx, func(st *state) error {
		if b, ok := st.bookings[bookingID]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *bookingRepo) FindByIDForUpdate(ctx context.Context, bookingID string) (*entity.Booking, error) {
	return r.FindByID(ctx, bookingID)
}

func (r *bookingRepo) FindActiveBySlotAndBoxer(ctx context.Context, slotID, boxerID string) (*entity.Booking, error) {
	list, err := r.filter(ctx, func(b *entity.Booking) bool {
		return b.SlotID == slotID && b.BoxerID == boxerID && b.Active()
	})
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (r *bookingRepo) ListActiveBySlot(ctx context.Context, slotID string) ([]*entity.Booking, error) {
	list, err := r.filter(ctx, func(b *entity.Booking) bool {
		return b.SlotID == slotID && b.Active()
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].BookingTime.Before(list[j].BookingTime)
	})
	return list, err
}

func (r *bookingRepo) CountActiveBySlot(ctx context.Context, slotID string) (int, error) {
	list, err := r.ListActiveBySlot(ctx, slotID)
	return len(list), err
}

func (r *bookingRepo) ListByBoxer(ctx context.Context, boxerID string, filter entity.BookingStatusFilter) ([]*entity.Booking, error) {
	list, err := r.filter(ctx, func(b *entity.Booking) bool {
		if b.BoxerID != boxerID || b.Archived {
			return false
		}
		return filter == "" || filter == entity.BookingFilterAll || string(b.Status) == string(filter)
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, err
}

func (r *bookingRepo) filter(ctx context.Context, keep func(b *entity.Booking) bool) ([]*entity.Booking, error) {
	var out []*entity.Booking
	err := r.v.do(ctx, func(st *state) error {
		for _, b := range st.bookings {
			b := b
			if keep(&b) {
				out = append(out, &b)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].BookingID < out[j].BookingID })
	return out, err
}

func (r *bookingRepo) Cancel(ctx context.Context, bookingID string, now time.Time) error {
	return r.v.do(ctx, func(st *state) error {
		cur, ok := st.bookings[bookingID]
		if !ok || !cur.Active() {
			return fmt.Errorf("active booking %s: %w", bookingID, repository.ErrNotFound)
		}
		cur.Status = entity.BookingStatusCancelled
		cur.CancelledAt = &now
		cur.UpdatedAt = now
		st.bookings[bookingID] = cur
		return nil
	})
}

func (r *bookingRepo) ListArchivableIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.v.do(ctx, func(st *state) error {
		for id, b := range st.bookings {
			if b.Archived {
				continue
			}
			if s, ok := st.slots[b.SlotID]; ok && s.Archived {
				ids = append(ids, id)
			}
		}
		return nil
	})
	sort.Strings(ids)
	return ids, err
}

func (r *bookingRepo) Archive(ctx context.Context, bookingID string, now time.Time) (bool, error) {
	var changed bool
	err := r.v.do(ctx, func(st *state) error {
		cur, ok := st.bookings[bookingID]
		if !ok || cur.Archived {
			return nil
		}
		cur.Archived = true
		cur.ArchivedAt = &now
		cur.UpdatedAt = now
		st.bookings[bookingID] = cur
		changed = true
		return nil
	})
	return changed, err
}
