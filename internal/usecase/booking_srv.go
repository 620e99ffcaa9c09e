package usecase

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/repository"
	"boxing-booking/internal/dto/request"
	"boxing-booking/internal/dto/response"
	"boxing-booking/internal/notify"
	"boxing-booking/pkg/metrics"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingService interface {
	Book(ctx context.Context, userID, slotID string) (*response.BookingResponse, error)
	Cancel(ctx context.Context, userID string, req *request.CancelBookingRequest) (*response.CancelBookingResponse, error)
	ListMine(ctx context.Context, userID string, query *request.MyBookingsQuery) (*response.MyBookingsResponse, error)
}

type bookingService struct {
	repo       *repository.Repository
	dispatcher notify.Dispatcher
	opts       Options
	log        *zap.Logger
}

func NewBookingService(repo *repository.Repository, dispatcher notify.Dispatcher, opts Options, log *zap.Logger) BookingService {
	return &bookingService{
		repo:       repo,
		dispatcher: dispatcher,
		opts:       opts,
		log:        log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) rejectBooking(err error, fields ...zap.Field) error {
	appErr := storeError(err, ErrBookFailed)
	metrics.RecordBooking(strconv.Itoa(appErr.Code))
	logFailure(s.log, "Book slot failed", appErr, fields...)
	return appErr
}

func (s *bookingService) Book(ctx context.Context, userID, slotID string) (*response.BookingResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	fields := []zap.Field{zap.String("user", utils.MaskID(userID)), zap.String("slot_id", slotID)}
	if slotID == "" {
		return nil, s.rejectBooking(ErrBookSlotIDRequired, fields...)
	}

	// optimistic pre-checks, repeated under the slot lock below
	boxer, err := s.repo.Boxer.FindByUserID(ctx, userID)
	if err != nil {
		return nil, s.rejectBooking(err, fields...)
	}
	if boxer == nil {
		return nil, s.rejectBooking(ErrBookBoxerMissing, fields...)
	}

	slot, err := s.repo.Slot.FindByID(ctx, slotID)
	if err != nil {
		return nil, s.rejectBooking(err, fields...)
	}
	if slot == nil {
		return nil, s.rejectBooking(ErrBookSlotNotFound, fields...)
	}
	if !slot.Open() {
		return nil, s.rejectBooking(ErrBookSlotUnavailable, fields...)
	}

	existing, err := s.repo.Booking.FindActiveBySlotAndBoxer(ctx, slotID, boxer.BoxerID)
	if err != nil {
		return nil, s.rejectBooking(err, fields...)
	}
	if existing != nil {
		return nil, s.rejectBooking(ErrAlreadyBooked, fields...)
	}

	now := s.opts.now()
	booking := &entity.Booking{
		BookingID:   utils.GenerateBookingID(),
		SlotID:      slotID,
		GymID:       slot.GymID,
		BoxerID:     boxer.BoxerID,
		BoxerUserID: userID,
		BookingTime: now,
		Status:      entity.BookingStatusActive,
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now

	var updated *entity.Slot
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		fresh, err := tx.Slot.FindByIDForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		switch {
		case fresh == nil:
			return ErrBookSlotNotFound
		case !fresh.Open():
			return ErrBookSlotUnavailable
		case fresh.Full():
			return ErrSlotFull
		}

		dup, err := tx.Booking.FindActiveBySlotAndBoxer(ctx, slotID, boxer.BoxerID)
		if err != nil {
			return err
		}
		if dup != nil {
			return ErrAlreadyBooked
		}

		if err := tx.Booking.Create(ctx, booking); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyBooked
			}
			return err
		}

		updated, err = tx.Slot.AdjustBookings(ctx, slotID, 1, now)
		return err
	})
	if err != nil {
		return nil, s.rejectBooking(err, fields...)
	}

	metrics.RecordBooking("success")
	s.log.Info("Slot booked",
		zap.String("booking_id", booking.BookingID),
		zap.String("slot_id", slotID),
		zap.String("boxer_id", boxer.BoxerID),
		zap.Int("current_bookings", updated.CurrentBookings),
	)

	s.publish(ctx, entity.NotificationNewBooking, boxer, updated)

	return &response.BookingResponse{
		BookingID:       booking.BookingID,
		SlotID:          slotID,
		BookingTime:     booking.BookingTime,
		CurrentBookings: updated.CurrentBookings,
	}, nil
}

func (s *bookingService) rejectCancel(err error, fields ...zap.Field) error {
	appErr := storeError(err, ErrCancelFailed)
	metrics.RecordCancellation(strconv.Itoa(appErr.Code))
	logFailure(s.log, "Cancel booking failed", appErr, fields...)
	return appErr
}

func (s *bookingService) Cancel(ctx context.Context, userID string, req *request.CancelBookingRequest) (*response.CancelBookingResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	fields := []zap.Field{
		zap.String("user", utils.MaskID(userID)),
		zap.String("booking_id", req.BookingID),
		zap.String("slot_id", req.SlotID),
	}
	if req.BookingID == "" && req.SlotID == "" {
		return nil, s.rejectCancel(ErrCancelIDRequired, fields...)
	}

	var booking *entity.Booking
	if req.BookingID != "" {
		b, err := s.repo.Booking.FindByID(ctx, req.BookingID)
		if err != nil {
			return nil, s.rejectCancel(err, fields...)
		}
		if b == nil {
			return nil, s.rejectCancel(ErrCancelBookingNotFound, fields...)
		}
		booking = b
	} else {
		boxer, err := s.repo.Boxer.FindByUserID(ctx, userID)
		if err != nil {
			return nil, s.rejectCancel(err, fields...)
		}
		if boxer == nil {
			return nil, s.rejectCancel(ErrCancelBoxerMissing, fields...)
		}
		b, err := s.repo.Booking.FindActiveBySlotAndBoxer(ctx, req.SlotID, boxer.BoxerID)
		if err != nil {
			return nil, s.rejectCancel(err, fields...)
		}
		if b == nil {
			return nil, s.rejectCancel(ErrCancelBookingNotFound, fields...)
		}
		booking = b
	}

	if booking.BoxerUserID != userID {
		return nil, s.rejectCancel(ErrCancelNotOwner, fields...)
	}
	if !booking.Active() {
		return nil, s.rejectCancel(ErrCancelAlreadyDone, fields...)
	}

	slot, err := s.repo.Slot.FindByID(ctx, booking.SlotID)
	if err != nil {
		return nil, s.rejectCancel(err, fields...)
	}
	if slot == nil {
		return nil, s.rejectCancel(ErrCancelSlotNotFound, fields...)
	}

	now := s.opts.now()
	if !s.beforeCutoff(slot, now) {
		return nil, s.rejectCancel(ErrCancelPastCutoff, fields...)
	}

	var updated *entity.Slot
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		// slot first, the same order Book takes its locks in
		fresh, err := tx.Slot.FindByIDForUpdate(ctx, booking.SlotID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return ErrCancelSlotNotFound
		}

		current, err := tx.Booking.FindByIDForUpdate(ctx, booking.BookingID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrCancelBookingNotFound
		}
		if !current.Active() {
			return ErrCancelAlreadyDone
		}

		if err := tx.Booking.Cancel(ctx, booking.BookingID, now); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCancelAlreadyDone
			}
			return err
		}

		updated, err = tx.Slot.AdjustBookings(ctx, booking.SlotID, -1, now)
		return err
	})
	if err != nil {
		return nil, s.rejectCancel(err, fields...)
	}

	metrics.RecordCancellation("success")
	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.BookingID),
		zap.String("slot_id", booking.SlotID),
		zap.Int("current_bookings", updated.CurrentBookings),
	)

	boxer, err := s.repo.Boxer.FindByID(ctx, booking.BoxerID)
	if err != nil || boxer == nil {
		s.log.Warn("Cancelled booking without boxer profile for notification", zap.String("boxer_id", booking.BoxerID), zap.Error(err))
		boxer = &entity.Boxer{BoxerID: booking.BoxerID, UserID: userID, Nickname: "A boxer"}
	}
	s.publish(ctx, entity.NotificationCancelledBooking, boxer, updated)

	return &response.CancelBookingResponse{
		BookingID:       booking.BookingID,
		SlotID:          booking.SlotID,
		CancelledAt:     now,
		CurrentBookings: updated.CurrentBookings,
	}, nil
}

// deadline is the last instant a booking on slot may be cancelled.
func (s *bookingService) deadline(slot *entity.Slot) (time.Time, error) {
	end, err := utils.At(slot.Date, slot.EndTime, s.opts.Location)
	if err != nil {
		return time.Time{}, err
	}
	return end.Add(-s.opts.CancelCutoff), nil
}

func (s *bookingService) beforeCutoff(slot *entity.Slot, now time.Time) bool {
	d, err := s.deadline(slot)
	if err != nil {
		s.log.Error("Slot has unparseable end time", zap.String("slot_id", slot.SlotID), zap.Error(err))
		return false
	}
	return now.Before(d)
}

// publish dispatches a booking event to the gym and the slot's other active
// bookers. It runs after commit and never fails the caller.
func (s *bookingService) publish(ctx context.Context, typ entity.NotificationType, boxer *entity.Boxer, slot *entity.Slot) {
	ev := notify.NewEvent(typ, s.opts.now())
	ev.GymUserID = slot.UserID
	ev.BoxerID = boxer.BoxerID
	ev.BoxerName = boxer.Nickname
	ev.Slot = notify.SlotInfo{
		SlotID:         slot.SlotID,
		Date:           slot.Date,
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
		AvailableSpots: slot.AvailableSpots(),
	}

	others, err := s.repo.Booking.ListActiveBySlot(ctx, slot.SlotID)
	if err != nil {
		s.log.Warn("Failed to resolve notification recipients", zap.String("slot_id", slot.SlotID), zap.Error(err))
	}
	for _, b := range others {
		if b.BoxerUserID != boxer.UserID {
			ev.OtherBoxerUserIDs = append(ev.OtherBoxerUserIDs, b.BoxerUserID)
		}
	}

	s.dispatcher.Dispatch(ctx, ev)
}

func (s *bookingService) ListMine(ctx context.Context, userID string, query *request.MyBookingsQuery) (*response.MyBookingsResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	boxer, err := s.repo.Boxer.FindByUserID(ctx, userID)
	if err != nil {
		appErr := storeError(err, ErrMyBookingsFailed)
		logFailure(s.log, "Failed to load boxer for booking list", appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}
	if boxer == nil {
		return nil, ErrMyBookingsBoxerMissing
	}

	filter := entity.BookingStatusFilter(query.Status)
	switch filter {
	case entity.BookingFilterActive, entity.BookingFilterCancelled:
	default:
		filter = entity.BookingFilterAll
	}

	fail := func(msg string, err error) (*response.MyBookingsResponse, error) {
		appErr := storeError(err, ErrMyBookingsFailed)
		logFailure(s.log, msg, appErr, zap.String("boxer_id", boxer.BoxerID))
		return nil, appErr
	}

	bookings, err := s.repo.Booking.ListByBoxer(ctx, boxer.BoxerID, filter)
	if err != nil {
		return fail("Failed to list boxer bookings", err)
	}

	now := s.opts.now()
	gyms := map[string]*entity.Gym{}
	items := make([]response.MyBookingItem, 0, len(bookings))
	for _, b := range bookings {
		slot, err := s.repo.Slot.FindByID(ctx, b.SlotID)
		if err != nil {
			return fail("Failed to load booked slot", err)
		}
		if slot == nil {
			continue
		}

		gym, seen := gyms[slot.GymID]
		if !seen {
			gym, err = s.repo.Gym.FindByID(ctx, slot.GymID)
			if err != nil {
				return fail("Failed to load gym of booking", err)
			}
			gyms[slot.GymID] = gym
		}

		item := response.MyBookingItem{
			BookingID:   b.BookingID,
			SlotID:      b.SlotID,
			Slot:        response.NewSlotBrief(slot),
			BookingTime: b.BookingTime,
			Status:      string(b.Status),
			CancelledAt: b.CancelledAt,
			CreatedAt:   b.CreatedAt,
		}
		if gym != nil {
			item.Gym = response.NewGymSummary(gym)
		}
		if b.Active() {
			if d, err := s.deadline(slot); err == nil {
				minutes := int(math.Floor(d.Sub(now).Minutes()))
				item.MinutesUntilDeadline = &minutes
				item.CanCancel = now.Before(d)
			}
		}
		items = append(items, item)
	}

	return &response.MyBookingsResponse{
		Bookings: items,
		Total:    len(items),
		Boxer:    response.BoxerBrief{BoxerID: boxer.BoxerID, Nickname: boxer.Nickname},
	}, nil
}
