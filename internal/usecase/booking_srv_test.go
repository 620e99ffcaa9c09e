package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/dto/request"
	"boxing-booking/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookCapacityUnderConcurrency(t *testing.T) {
	f := newFixture(t)
	f.seedGym(t, "gym-user", entity.GymStatusApproved, "")
	const capacity = 5
	slotID := f.publish(t, "gym-user", tomorrow, "18:00", "19:00", capacity)

	for i := 0; i <= capacity; i++ {
		f.seedBoxer(t, fmt.Sprintf("boxer-%d", i), fmt.Sprintf("Boxer %d", i))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		full    int
	)
	for i := 0; i <= capacity; i++ {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := f.svc.Booking.Book(context.Background(), userID, slotID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, ErrSlotFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(fmt.Sprintf("boxer-%d", i))
	}
	wg.Wait()

	assert.Equal(t, capacity, success)
	assert.Equal(t, 1, full)
	assert.Equal(t, capacity, f.slot(t, slotID).CurrentBookings)

	active, err := f.repo.Booking.CountActiveBySlot(context.Background(), slotID)
	require.NoError(t, err)
	assert.Equal(t, capacity, active)
}

func TestBookDuplicateThenRebookAfterCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGym(t, "gym-user", entity.GymStatusApproved, "")
	f.seedBoxer(t, "boxer-a", "Ali")
	slotID := f.publish(t, "gym-user", tomorrow, "18:00", "19:00", 3)

	first, err := f.svc.Booking.Book(ctx, "boxer-a", slotID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CurrentBookings)

	_, err = f.svc.Booking.Book(ctx, "boxer-a", slotID)
	assert.ErrorIs(t, err, ErrAlreadyBooked)

	_, err = f.svc.Booking.Cancel(ctx, "boxer-a", &request.CancelBookingRequest{BookingID: first.BookingID})
	require.NoError(t, err)

	second, err := f.svc.Booking.Book(ctx, "boxer-a", slotID)
	require.NoError(t, err)
	assert.NotEqual(t, first.BookingID, second.BookingID)
	assert.Equal(t, 1, f.slot(t, slotID).CurrentBookings)
}

func TestBookRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGym(t, "gym-user", entity.GymStatusApproved, "")
	f.seedBoxer(t, "boxer-a", "Ali")
	slotID := f.publish(t, "gym-user", tomorrow, "18:00", "19:00", 2)
	revoked := f.publish(t, "gym-user", tomorrow, "08:00", "09:00", 2)
	_, err := f.svc.Slot.Cancel(ctx, "gym-user", revoked)
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID string
		slotID string
		want   *AppError
	}{
		{"missing slot id", "boxer-a", "", ErrBookSlotIDRequired},
		{"no boxer profile", "stranger", slotID, ErrBookBoxerMissing},
		{"unknown slot", "boxer-a", "slot_missing", ErrBookSlotNotFound},
		{"cancelled slot", "boxer-a", revoked, ErrBookSlotUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Booking.Book(ctx, tt.userID, tt.slotID)
			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.want.Code, appErr.Code)
		})
	}
}

func TestBookScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGym(t, "gym-user", entity.GymStatusApproved, "")
	for _, u := range []string{"a", "b", "c"} {
		f.seedBoxer(t, "boxer-"+u, "Boxer "+u)
	}
	slotID := f.publish(t, "gym-user", tomorrow, "18:00", "19:00", 2)

	a, err := f.svc.Booking.Book(ctx, "boxer-a", slotID)
	require.NoError(t, err)
	assert.Equal(t, 1, a.CurrentBookings)

	b, err := f.svc.Booking.Book(ctx, "boxer-b", slotID)
	require.NoError(t, err)
	assert.Equal(t, 2, b.CurrentBookings)

	_, err = f.svc.Booking.Book(ctx, "boxer-c", slotID)
	assert.ErrorIs(t, err, ErrSlotFull)

	cancelled, err := f.svc.Booking.Cancel(ctx, "boxer-a", &request.CancelBookingRequest{SlotID: slotID})
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled.CurrentBookings)

	c, err := f.svc.Booking.Book(ctx, "boxer-c", slotID)
	require.NoError(t, err)
	assert.Equal(t, 2, c.CurrentBookings)
	assert.Equal(t, 2, f.slot(t, slotID).CurrentBookings)
}

func TestCancelCutoff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGym(t, "gym-user", entity.GymStatusApproved, "")
	f.seedBoxer(t, "boxer-a", "Ali")
	f.seedBoxer(t, "boxer-b", "Bo")
	slotID := f.publish(t, "gym-user", tomorrow, "18:00", "19:00", 2)

	a, err := f.svc.Booking.Book(ctx, "boxer-a", slotID)
	require.NoError(t, err)
	b, err := f.svc.Booking.Book(ctx, "boxer-b", slotID)
	require.NoError(t, err)

	slotEnd := time.Date(2026, 3, 11, 19, 0, 0, 0, time.UTC)

	f.now = slotEnd.Add(-31 * time.Minute)
	_, err = f.svc.Booking.Cancel(ctx, "boxer-a", &request.CancelBookingRequest{BookingID: a.BookingID})
	assert.NoError(t, err)

	f.now = slotEnd.Add(-29 * time.Minute)
	_, err = f.svc.Booking.Cancel(ctx, "boxer-b", &request.CancelBookingRequest{BookingID: b.BookingID})
	assert.ErrorIs(t, err, ErrCancelPastCutoff)

	f.now = slotEnd.Add(-30 * time.Minute)
	_, err = f.svc.Booking.Cancel(ctx, "boxer-b", &request.CancelBookingRequest{BookingID: b.BookingID})
	assert.ErrorIs(t, err, ErrCancelPastCutoff)

	assert.Equal(t, 1, f.slot(t, slotID).CurrentBookings)
}

func TestCancelRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGym(t, "gym-user", entity.GymStatusApproved, "")
	f.seedBoxer(t, "boxer-a", "Ali")
	f.seedBoxer(t, "boxer-b", "Bo")
	slotID := f.publish(t, "gym-user", tomorrow, "18:00", "19:00", 2)

	a, err := f.svc.Booking.Book(ctx, "boxer-a", slotID)
	require.NoError(t, err)
	done, err := f.svc.Booking.Book(ctx, "boxer-b", slotID)
	require.NoError(t, err)
	_, err = f.svc.Booking.Cancel(ctx, "boxer-b", &request.CancelBookingRequest{BookingID: done.BookingID})
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID string
		req    request.CancelBookingRequest
		want   *AppError
	}{
		{"no reference", "boxer-a", request.CancelBookingRequest{}, ErrCancelIDRequired},
		{"unknown booking", "boxer-a", request.CancelBookingRequest{BookingID: "booking_missing"}, ErrCancelBookingNotFound},
		{"slot without boxer profile", "stranger", request.CancelBookingRequest{SlotID: slotID}, ErrCancelBoxerMissing},
		{"slot without booking", "boxer-b", request.CancelBookingRequest{SlotID: slotID}, ErrCancelBookingNotFound},
		{"someone else's booking", "boxer-b", request.CancelBookingRequest{BookingID: a.BookingID}, ErrCancelNotOwner},
		{"already cancelled", "boxer-b", request.CancelBookingRequest{BookingID: done.BookingID}, ErrCancelAlreadyDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Booking.Cancel(ctx, tt.userID, &tt.req)
			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.want.Code, appErr.Code)
		})
	}

	assert.Equal(t, 1, f.slot(t, slotID).CurrentBookings)
}

func TestBookAndCancelDispatchEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGym(t, "gym-user", entity.GymStatusApproved, "")
	f.seedBoxer(t, "boxer-a", "Ali")
	f.seedBoxer(t, "boxer-b", "Bo")
	slotID := f.publish(t, "gym-user", tomorrow, "18:00", "19:00", 3)

	_, err := f.svc.Booking.Book(ctx, "boxer-a", slotID)
	require.NoError(t, err)
	booked, err := f.svc.Booking.Book(ctx, "boxer-b", slotID)
	require.NoError(t, err)
	_, err = f.svc.Booking.Cancel(ctx, "boxer-b", &request.CancelBookingRequest{BookingID: booked.BookingID})
	require.NoError(t, err)

	f.dispatcher.AssertNumberOfCalls(t, "Dispatch", 3)
	f.dispatcher.AssertCalled(t, "Dispatch", mock.Anything, mock.MatchedBy(func(ev notify.Event) bool {
		return ev.Type == entity.NotificationNewBooking &&
			ev.BoxerName == "Bo" &&
			ev.GymUserID == "gym-user" &&
			assert.ObjectsAreEqual([]string{"boxer-a"}, ev.OtherBoxerUserIDs) &&
			ev.Slot.AvailableSpots == 1
	}))
	f.dispatcher.AssertCalled(t, "Dispatch", mock.Anything, mock.MatchedBy(func(ev notify.Event) bool {
		return ev.Type == entity.NotificationCancelledBooking &&
			ev.BoxerName == "Bo" &&
			assert.ObjectsAreEqual([]string{"boxer-a"}, ev.OtherBoxerUserIDs) &&
			ev.Slot.AvailableSpots == 2
	}))
}

func TestFailedBookDispatchesNothing(t *testing.T) {
	f := newFixture(t)
	f.seedGym(t, "gym-user", entity.GymStatusApproved, "")
	f.seedBoxer(t, "boxer-a", "Ali")
	f.seedBoxer(t, "boxer-b", "Bo")
	slotID := f.publish(t, "gym-user", tomorrow, "18:00", "19:00", 1)

	_, err := f.svc.Booking.Book(context.Background(), "boxer-a", slotID)
	require.NoError(t, err)
	_, err = f.svc.Booking.Book(context.Background(), "boxer-b", slotID)
	require.ErrorIs(t, err, ErrSlotFull)

	f.dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestListMine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedGym(t, "gym-user", entity.GymStatusApproved, "Lisbon")
	f.seedBoxer(t, "boxer-a", "Ali")
	morning := f.publish(t, "gym-user", tomorrow, "08:00", "09:00", 2)
	evening := f.publish(t, "gym-user", tomorrow, "18:00", "19:00", 2)

	_, err := f.svc.Booking.Book(ctx, "boxer-a", morning)
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)
	kept, err := f.svc.Booking.Book(ctx, "boxer-a", evening)
	require.NoError(t, err)
	_, err = f.svc.Booking.Cancel(ctx, "boxer-a", &request.CancelBookingRequest{SlotID: morning})
	require.NoError(t, err)

	all, err := f.svc.Booking.ListMine(ctx, "boxer-a", &request.MyBookingsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
	assert.Equal(t, "Ali", all.Boxer.Nickname)
	assert.Equal(t, kept.BookingID, all.Bookings[0].BookingID)

	active, err := f.svc.Booking.ListMine(ctx, "boxer-a", &request.MyBookingsQuery{Status: "active"})
	require.NoError(t, err)
	require.Equal(t, 1, active.Total)
	item := active.Bookings[0]
	assert.True(t, item.CanCancel)
	require.NotNil(t, item.MinutesUntilDeadline)
	// 2026-03-10 12:01 until 2026-03-11 18:30
	assert.Equal(t, 30*60+29, *item.MinutesUntilDeadline)
	assert.Equal(t, "Lisbon", *item.Gym.City)

	cancelled, err := f.svc.Booking.ListMine(ctx, "boxer-a", &request.MyBookingsQuery{Status: "cancelled"})
	require.NoError(t, err)
	require.Equal(t, 1, cancelled.Total)
	assert.False(t, cancelled.Bookings[0].CanCancel)
	assert.Nil(t, cancelled.Bookings[0].MinutesUntilDeadline)
	assert.NotNil(t, cancelled.Bookings[0].CancelledAt)

	_, err = f.svc.Booking.ListMine(ctx, "stranger", &request.MyBookingsQuery{})
	assert.ErrorIs(t, err, ErrMyBookingsBoxerMissing)
}
