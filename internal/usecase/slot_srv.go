package usecase

import (
	"context"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/repository"
	"boxing-booking/internal/dto/request"
	"boxing-booking/internal/dto/response"
	"boxing-booking/pkg/metrics"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
)

const availableSlotLimit = 100

type SlotService interface {
	// Gym endpoints
	Publish(ctx context.Context, userID string, req *request.PublishSlotRequest) (*response.SlotResponse, error)
	Update(ctx context.Context, userID, slotID string, req *request.UpdateSlotRequest) (*response.SlotResponse, error)
	Cancel(ctx context.Context, userID, slotID string) (*response.SlotResponse, error)
	ListForGym(ctx context.Context, userID string, query *request.GymSlotListQuery) (*response.GymSlotListResponse, error)

	// Any caller
	ListAvailable(ctx context.Context, userID string, query *request.SlotListQuery) (*response.AvailableSlotListResponse, error)
	ListBookings(ctx context.Context, userID, slotID string) (*response.SlotBookingsResponse, error)
}

type slotService struct {
	repo *repository.Repository
	opts Options
	log  *zap.Logger
}

func NewSlotService(repo *repository.Repository, opts Options, log *zap.Logger) SlotService {
	return &slotService{
		repo: repo,
		opts: opts,
		log:  log.With(zap.String("service", "slot")),
	}
}

// slotRules maps each field check to the code of the calling operation.
type slotRules struct {
	date, dateRange, clock, order, capacity *AppError
}

var (
	publishRules = slotRules{ErrPublishDateInvalid, ErrPublishDateOutOfRange, ErrPublishTimeInvalid, ErrPublishTimeOrder, ErrPublishCapacityInvalid}
	updateRules  = slotRules{ErrUpdateDateInvalid, ErrUpdateDateOutOfRange, ErrUpdateTimeInvalid, ErrUpdateTimeOrder, ErrUpdateCapacityInvalid}
)

// window is a validated slot interval in minutes after midnight.
type window struct {
	date       string
	start, end int
	maxBoxers  int
}

func (s *slotService) validate(fields request.SlotFields, rules slotRules) (window, *AppError) {
	errs := utils.ValidateStruct(fields)

	if _, bad := errs["date"]; bad {
		return window{}, rules.date
	}
	day, err := utils.ParseDate(fields.Date, s.opts.Location)
	if err != nil {
		return window{}, rules.date
	}
	today := utils.StartOfDay(s.opts.now(), s.opts.Location)
	if day.Before(today) || day.After(today.AddDate(0, 0, s.opts.PublishWindowDays)) {
		return window{}, rules.dateRange
	}

	_, badStart := errs["start_time"]
	_, badEnd := errs["end_time"]
	if badStart || badEnd {
		return window{}, rules.clock
	}
	start, _ := utils.ParseClock(fields.StartTime)
	end, _ := utils.ParseClock(fields.EndTime)
	if start >= end {
		return window{}, rules.order
	}

	if _, bad := errs["max_boxers"]; bad || fields.MaxBoxers == nil || *fields.MaxBoxers > s.opts.MaxBoxers {
		return window{}, rules.capacity
	}

	return window{
		date:      utils.FormatDate(day),
		start:     start,
		end:       end,
		maxBoxers: *fields.MaxBoxers,
	}, nil
}

// overlaps applies ¬(new_end ≤ existing_start ∨ new_start ≥ existing_end)
// against every slot except exclude.
func overlaps(existing []*entity.Slot, w window, exclude string) bool {
	for _, slot := range existing {
		if slot.SlotID == exclude {
			continue
		}
		start, err := utils.ParseClock(slot.StartTime)
		if err != nil {
			continue
		}
		end, err := utils.ParseClock(slot.EndTime)
		if err != nil {
			continue
		}
		if !(w.end <= start || w.start >= end) {
			return true
		}
	}
	return false
}

func formatClock(minutes int) string {
	return time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format("15:04")
}

func (s *slotService) Publish(ctx context.Context, userID string, req *request.PublishSlotRequest) (*response.SlotResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	w, appErr := s.validate(req.SlotFields, publishRules)
	if appErr != nil {
		logFailure(s.log, "Publish slot validation failed", appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}

	gym, err := s.repo.Gym.FindByUserID(ctx, userID)
	if err != nil {
		appErr := storeError(err, ErrPublishFailed)
		logFailure(s.log, "Failed to load gym for publish", appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}
	if gym == nil {
		logFailure(s.log, "Publish without gym profile", ErrPublishGymMissing, zap.String("user", utils.MaskID(userID)))
		return nil, ErrPublishGymMissing
	}
	if !gym.Approved() {
		logFailure(s.log, "Publish by unapproved gym", ErrPublishGymNotApproved, zap.String("gym_id", gym.GymID))
		return nil, ErrPublishGymNotApproved
	}

	now := s.opts.now()
	slot := &entity.Slot{
		SlotID:    utils.GenerateSlotID(),
		GymID:     gym.GymID,
		UserID:    userID,
		Date:      w.date,
		StartTime: formatClock(w.start),
		EndTime:   formatClock(w.end),
		MaxBoxers: w.maxBoxers,
		Status:    entity.SlotStatusActive,
	}
	slot.CreatedAt = now
	slot.UpdatedAt = now

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Slot.LockGym(ctx, gym.GymID); err != nil {
			return err
		}
		existing, err := tx.Slot.FindActiveByGymAndDate(ctx, gym.GymID, w.date)
		if err != nil {
			return err
		}
		if overlaps(existing, w, "") {
			return ErrPublishConflict
		}
		return tx.Slot.Create(ctx, slot)
	})
	if err != nil {
		appErr := storeError(err, ErrPublishFailed)
		logFailure(s.log, "Failed to publish slot", appErr, zap.String("gym_id", gym.GymID), zap.String("date", w.date))
		return nil, appErr
	}

	metrics.RecordSlotPublished()
	s.log.Info("Slot published",
		zap.String("slot_id", slot.SlotID),
		zap.String("gym_id", gym.GymID),
		zap.String("date", slot.Date),
		zap.String("start_time", slot.StartTime),
		zap.String("end_time", slot.EndTime),
	)

	resp := response.NewSlotResponse(slot)
	return &resp, nil
}

func (s *slotService) Update(ctx context.Context, userID, slotID string, req *request.UpdateSlotRequest) (*response.SlotResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	if slotID == "" {
		return nil, ErrUpdateSlotIDRequired
	}
	w, appErr := s.validate(req.SlotFields, updateRules)
	if appErr != nil {
		logFailure(s.log, "Update slot validation failed", appErr, zap.String("slot_id", slotID))
		return nil, appErr
	}

	var updated *entity.Slot
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		slot, err := tx.Slot.FindByIDForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		switch {
		case slot == nil:
			return ErrUpdateSlotNotFound
		case slot.UserID != userID:
			return ErrUpdateNotOwner
		case !slot.Open():
			return ErrUpdateSlotNotActive
		}

		// fresh count, the cached counter may lag
		booked, err := tx.Booking.CountActiveBySlot(ctx, slotID)
		if err != nil {
			return err
		}
		if booked > 0 {
			return ErrUpdateHasBookings
		}

		if err := tx.Slot.LockGym(ctx, slot.GymID); err != nil {
			return err
		}
		existing, err := tx.Slot.FindActiveByGymAndDate(ctx, slot.GymID, w.date)
		if err != nil {
			return err
		}
		if overlaps(existing, w, slotID) {
			return ErrUpdateConflict
		}
		if w.maxBoxers < booked {
			return ErrUpdateBelowBookings
		}

		slot.Date = w.date
		slot.StartTime = formatClock(w.start)
		slot.EndTime = formatClock(w.end)
		slot.MaxBoxers = w.maxBoxers
		slot.UpdatedAt = s.opts.now()
		if err := tx.Slot.Update(ctx, slot); err != nil {
			return err
		}
		updated = slot
		return nil
	})
	if err != nil {
		appErr := storeError(err, ErrUpdateFailed)
		logFailure(s.log, "Failed to update slot", appErr, zap.String("slot_id", slotID))
		return nil, appErr
	}

	s.log.Info("Slot updated", zap.String("slot_id", slotID), zap.String("date", updated.Date))

	resp := response.NewSlotResponse(updated)
	return &resp, nil
}

func (s *slotService) Cancel(ctx context.Context, userID, slotID string) (*response.SlotResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	if slotID == "" {
		return nil, ErrRevokeSlotIDRequired
	}

	var cancelled *entity.Slot
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		slot, err := tx.Slot.FindByIDForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		switch {
		case slot == nil:
			return ErrRevokeSlotNotFound
		case slot.UserID != userID:
			return ErrRevokeNotOwner
		case !slot.Open():
			return ErrRevokeSlotNotActive
		}

		booked, err := tx.Booking.CountActiveBySlot(ctx, slotID)
		if err != nil {
			return err
		}
		if booked > 0 {
			return ErrRevokeHasBookings
		}

		slot.Status = entity.SlotStatusCancelled
		slot.UpdatedAt = s.opts.now()
		if err := tx.Slot.Update(ctx, slot); err != nil {
			return err
		}
		cancelled = slot
		return nil
	})
	if err != nil {
		appErr := storeError(err, ErrRevokeFailed)
		logFailure(s.log, "Failed to cancel slot", appErr, zap.String("slot_id", slotID))
		return nil, appErr
	}

	s.log.Info("Slot cancelled", zap.String("slot_id", slotID), zap.String("gym_id", cancelled.GymID))

	resp := response.NewSlotResponse(cancelled)
	return &resp, nil
}

func (s *slotService) ListForGym(ctx context.Context, userID string, query *request.GymSlotListQuery) (*response.GymSlotListResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	gym, err := s.repo.Gym.FindByUserID(ctx, userID)
	if err != nil {
		appErr := storeError(err, ErrGymSlotsFailed)
		logFailure(s.log, "Failed to load gym for slot list", appErr, zap.String("user", utils.MaskID(userID)))
		return nil, appErr
	}
	if gym == nil {
		return nil, ErrGymSlotsGymMissing
	}

	filter := entity.SlotStatusFilter(query.Status)
	switch filter {
	case entity.SlotFilterActive, entity.SlotFilterCancelled:
	default:
		filter = entity.SlotFilterAll
	}

	slots, err := s.repo.Slot.ListByGym(ctx, gym.GymID, filter)
	if err != nil {
		appErr := storeError(err, ErrGymSlotsFailed)
		logFailure(s.log, "Failed to list gym slots", appErr, zap.String("gym_id", gym.GymID))
		return nil, appErr
	}

	items := make([]response.GymSlotItem, 0, len(slots))
	for _, slot := range slots {
		booked, err := s.repo.Booking.CountActiveBySlot(ctx, slot.SlotID)
		if err != nil {
			appErr := storeError(err, ErrGymSlotsFailed)
			logFailure(s.log, "Failed to count slot bookings", appErr, zap.String("slot_id", slot.SlotID))
			return nil, appErr
		}
		slot.CurrentBookings = booked
		items = append(items, response.GymSlotItem{
			SlotResponse: response.NewSlotResponse(slot),
			CanModify:    slot.Open() && booked == 0,
		})
	}

	return &response.GymSlotListResponse{Slots: items, Total: len(items)}, nil
}

func (s *slotService) ListAvailable(ctx context.Context, userID string, query *request.SlotListQuery) (*response.AvailableSlotListResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	if errs := utils.ValidateStruct(query); len(errs) > 0 {
		s.log.Warn("Slot list filter invalid", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, ErrSlotListFilterInvalid
	}

	q := entity.SlotQuery{
		DateFrom: query.DateFrom,
		DateTo:   query.DateTo,
		GymID:    query.GymID,
	}
	if q.DateFrom == "" {
		q.DateFrom = utils.Today(s.opts.now(), s.opts.Location)
	}

	fail := func(msg string, err error) (*response.AvailableSlotListResponse, error) {
		appErr := storeError(err, ErrSlotListFailed)
		logFailure(s.log, msg, appErr)
		return nil, appErr
	}

	slots, err := s.repo.Slot.ListOpen(ctx, q)
	if err != nil {
		return fail("Failed to list open slots", err)
	}

	booked := map[string]bool{}
	if userID != "" {
		boxer, err := s.repo.Boxer.FindByUserID(ctx, userID)
		if err != nil {
			return fail("Failed to load caller boxer profile", err)
		}
		if boxer != nil {
			mine, err := s.repo.Booking.ListByBoxer(ctx, boxer.BoxerID, entity.BookingFilterActive)
			if err != nil {
				return fail("Failed to list caller bookings", err)
			}
			for _, b := range mine {
				booked[b.SlotID] = true
			}
		}
	}

	gyms := map[string]*entity.Gym{}
	items := make([]response.AvailableSlotItem, 0, len(slots))
	for _, slot := range slots {
		gym, seen := gyms[slot.GymID]
		if !seen {
			gym, err = s.repo.Gym.FindByID(ctx, slot.GymID)
			if err != nil {
				return fail("Failed to load gym", err)
			}
			gyms[slot.GymID] = gym
		}
		if gym == nil || !gym.Approved() {
			continue
		}
		if query.City != "" && (gym.City == nil || *gym.City != query.City) {
			continue
		}

		items = append(items, response.AvailableSlotItem{
			SlotID:          slot.SlotID,
			Gym:             response.NewGymSummary(gym),
			Date:            slot.Date,
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			MaxBoxers:       slot.MaxBoxers,
			CurrentBookings: slot.CurrentBookings,
			AvailableSpots:  slot.AvailableSpots(),
			Status:          string(slot.Status),
			IsBooked:        booked[slot.SlotID],
		})
		if len(items) == availableSlotLimit {
			break
		}
	}

	return &response.AvailableSlotListResponse{Slots: items, Total: len(items)}, nil
}

func (s *slotService) ListBookings(ctx context.Context, userID, slotID string) (*response.SlotBookingsResponse, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()

	if slotID == "" {
		return nil, ErrSlotBookingsSlotIDRequired
	}

	fail := func(msg string, err error) (*response.SlotBookingsResponse, error) {
		appErr := storeError(err, ErrSlotBookingsFailed)
		logFailure(s.log, msg, appErr, zap.String("slot_id", slotID))
		return nil, appErr
	}

	slot, err := s.repo.Slot.FindByID(ctx, slotID)
	if err != nil {
		return fail("Failed to load slot", err)
	}
	if slot == nil {
		return nil, ErrSlotBookingsSlotNotFound
	}

	gym, err := s.repo.Gym.FindByID(ctx, slot.GymID)
	if err != nil {
		return fail("Failed to load gym of slot", err)
	}
	if gym == nil {
		return nil, ErrSlotBookingsGymNotFound
	}

	bookings, err := s.repo.Booking.ListActiveBySlot(ctx, slotID)
	if err != nil {
		return fail("Failed to list slot bookings", err)
	}

	now := s.opts.now()
	isBooked := false
	boxers := make([]response.BookedBoxer, 0, len(bookings))
	for _, b := range bookings {
		if b.BoxerUserID == userID {
			isBooked = true
		}
		boxer, err := s.repo.Boxer.FindByID(ctx, b.BoxerID)
		if err != nil {
			return fail("Failed to load booked boxer", err)
		}
		if boxer == nil {
			continue
		}
		boxers = append(boxers, response.BookedBoxer{
			BoxerID:     boxer.BoxerID,
			Nickname:    boxer.Nickname,
			Gender:      string(boxer.Gender),
			Age:         utils.Age(boxer.Birthdate, now, s.opts.Location),
			Height:      boxer.Height,
			Weight:      boxer.Weight,
			City:        boxer.City,
			BookingTime: b.BookingTime,
		})
	}

	brief := response.NewSlotBrief(slot)
	brief.IsBooked = &isBooked

	return &response.SlotBookingsResponse{
		Slot:   brief,
		Gym:    response.NewGymSummary(gym),
		Boxers: boxers,
		Total:  len(boxers),
	}, nil
}
