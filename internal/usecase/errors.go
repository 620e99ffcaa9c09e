package usecase

import (
	"errors"
	"fmt"

	"boxing-booking/pkg/database"
	"boxing-booking/pkg/utils"
)

// Kind groups failures by how a caller should react to them.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnavailable  Kind = "unavailable"
	KindInternal     Kind = "internal"
)

// AppError carries the numeric code clients branch on. Codes are namespaced by
// feature area and each distinct failure condition has its own code.
type AppError struct {
	Code    int
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any AppError with the same code, so wrapped copies still compare
// equal to the sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap returns a copy of e carrying err as its cause.
func (e *AppError) Wrap(err error) *AppError {
	c := *e
	c.Err = err
	return &c
}

// Retryable reports whether the same request may succeed on a later attempt.
func (e *AppError) Retryable() bool {
	return e.Kind == KindUnavailable
}

func newError(code int, kind Kind, msg string) *AppError {
	return &AppError{Code: code, Kind: kind, Message: msg}
}

var (
	ErrUnauthenticated = newError(1001, KindUnauthorized, "unable to resolve caller identity")

	ErrStoreTimeout = newError(utils.CodeStoreTimeout, KindUnavailable, "store call timed out, retry later")
	ErrStoreBusy    = newError(9002, KindUnavailable, "store is busy, retry later")
)

// boxer profiles
var (
	ErrBoxerNicknameRequired = newError(2001, KindValidation, "nickname is required")
	ErrBoxerGenderInvalid    = newError(2002, KindValidation, "gender must be male or female")
	ErrBoxerBodyInvalid      = newError(2003, KindValidation, "height must be 100-250 cm and weight 30-200 kg")
	ErrBoxerBirthdateInvalid = newError(2004, KindValidation, "birthdate is missing or invalid")
	ErrBoxerExists           = newError(2005, KindConflict, "boxer profile already exists")
	ErrBoxerGymNotFound      = newError(2006, KindNotFound, "linked gym does not exist")
	ErrBoxerCreateFailed     = newError(2007, KindInternal, "failed to create boxer profile")
	ErrBoxerNotFound         = newError(2008, KindNotFound, "boxer profile not found")
	ErrBoxerLookupFailed     = newError(2009, KindInternal, "failed to load boxer profile")
	ErrBoxerRecordInvalid    = newError(2010, KindValidation, "record_wins, record_losses and record_draws must not be negative")
	ErrBoxerFieldInvalid     = newError(2011, KindValidation, "boxer profile has an invalid field")
)

// gym profiles
var (
	ErrGymNameRequired    = newError(3001, KindValidation, "gym name is required")
	ErrGymAddressRequired = newError(3002, KindValidation, "address is required")
	ErrGymLocationInvalid = newError(3003, KindValidation, "location is missing or out of range")
	ErrGymPhoneRequired   = newError(3004, KindValidation, "phone is required")
	ErrGymExists          = newError(3005, KindConflict, "gym profile already exists")
	ErrGymCreateFailed    = newError(3006, KindInternal, "failed to create gym profile")
	ErrGymNotFound        = newError(3008, KindNotFound, "gym profile not found")
	ErrGymLookupFailed    = newError(3009, KindInternal, "failed to load gym profile")
	ErrGymFieldInvalid    = newError(3010, KindValidation, "gym profile has an invalid field")
	ErrStatsFailed        = newError(4001, KindInternal, "failed to load platform statistics")
)

// slot publishing
var (
	ErrPublishDateInvalid     = newError(6001, KindValidation, "date is missing or not YYYY-MM-DD")
	ErrPublishDateOutOfRange  = newError(6002, KindValidation, "date must be within the next 7 days")
	ErrPublishTimeInvalid     = newError(6003, KindValidation, "start_time and end_time must use HH:MM")
	ErrPublishTimeOrder       = newError(6004, KindValidation, "end_time must be later than start_time")
	ErrPublishCapacityInvalid = newError(6005, KindValidation, "max_boxers must be between 1 and 50")
	ErrPublishGymMissing      = newError(6006, KindForbidden, "gym profile not found")
	ErrPublishGymNotApproved  = newError(6007, KindForbidden, "gym profile is not approved")
	ErrPublishConflict        = newError(6008, KindConflict, "slot overlaps an existing slot")
	ErrPublishFailed          = newError(6009, KindInternal, "failed to publish slot")

	ErrGymSlotsGymMissing = newError(6010, KindForbidden, "gym profile not found")
	ErrGymSlotsFailed     = newError(6011, KindInternal, "failed to list gym slots")
)

// slot updates
var (
	ErrUpdateSlotIDRequired  = newError(6020, KindValidation, "slot_id is required")
	ErrUpdateDateInvalid     = newError(6021, KindValidation, "date is missing or not YYYY-MM-DD")
	ErrUpdateDateOutOfRange  = newError(6022, KindValidation, "date must be within the next 7 days")
	ErrUpdateTimeInvalid     = newError(6023, KindValidation, "start_time and end_time must use HH:MM")
	ErrUpdateTimeOrder       = newError(6024, KindValidation, "end_time must be later than start_time")
	ErrUpdateCapacityInvalid = newError(6025, KindValidation, "max_boxers must be between 1 and 50")
	ErrUpdateSlotNotFound    = newError(6026, KindNotFound, "slot not found")
	ErrUpdateNotOwner        = newError(6027, KindForbidden, "slot belongs to another gym")
	ErrUpdateSlotNotActive   = newError(6028, KindConflict, "only active slots can be changed")
	ErrUpdateHasBookings     = newError(6029, KindConflict, "slot already has bookings")
	ErrUpdateConflict        = newError(6030, KindConflict, "slot overlaps an existing slot")
	ErrUpdateBelowBookings   = newError(6031, KindConflict, "max_boxers cannot be below current bookings")
	ErrUpdateFailed          = newError(6032, KindInternal, "failed to update slot")
)

// slot cancellation
var (
	ErrRevokeSlotIDRequired = newError(6040, KindValidation, "slot_id is required")
	ErrRevokeSlotNotFound   = newError(6041, KindNotFound, "slot not found")
	ErrRevokeNotOwner       = newError(6042, KindForbidden, "slot belongs to another gym")
	ErrRevokeSlotNotActive  = newError(6043, KindConflict, "only active slots can be cancelled")
	ErrRevokeHasBookings    = newError(6044, KindConflict, "slot already has bookings")
	ErrRevokeFailed         = newError(6045, KindInternal, "failed to cancel slot")
)

// slot queries
var (
	ErrSlotListFailed        = newError(6050, KindInternal, "failed to list available slots")
	ErrSlotListFilterInvalid = newError(6051, KindValidation, "date_from and date_to must be YYYY-MM-DD")

	ErrSlotBookingsSlotIDRequired = newError(6080, KindValidation, "slot_id is required")
	ErrSlotBookingsSlotNotFound   = newError(6081, KindNotFound, "slot not found")
	ErrSlotBookingsGymNotFound    = newError(6082, KindNotFound, "gym of slot not found")
	ErrSlotBookingsFailed         = newError(6083, KindInternal, "failed to list slot bookings")
)

// booking ledger
var (
	ErrBookSlotIDRequired  = newError(6060, KindValidation, "slot_id is required")
	ErrBookBoxerMissing    = newError(6061, KindForbidden, "create a boxer profile before booking")
	ErrBookSlotNotFound    = newError(6062, KindNotFound, "slot not found")
	ErrBookSlotUnavailable = newError(6063, KindConflict, "slot is not open for booking")
	ErrAlreadyBooked       = newError(6064, KindConflict, "slot already booked")
	ErrSlotFull            = newError(6065, KindConflict, "slot is full")
	ErrBookFailed          = newError(6066, KindInternal, "failed to book slot")

	ErrCancelIDRequired      = newError(6070, KindValidation, "booking_id or slot_id is required")
	ErrCancelBookingNotFound = newError(6071, KindNotFound, "booking not found")
	ErrCancelBoxerMissing    = newError(6072, KindForbidden, "boxer profile not found")
	ErrCancelNotOwner        = newError(6073, KindForbidden, "booking belongs to another boxer")
	ErrCancelAlreadyDone     = newError(6074, KindConflict, "booking already cancelled")
	ErrCancelSlotNotFound    = newError(6075, KindNotFound, "slot not found")
	ErrCancelPastCutoff      = newError(6076, KindConflict, "cancellation closes 30 minutes before the slot ends")
	ErrCancelFailed          = newError(6077, KindInternal, "failed to cancel booking")

	ErrMyBookingsBoxerMissing = newError(6110, KindForbidden, "boxer profile not found")
	ErrMyBookingsFailed       = newError(6111, KindInternal, "failed to list bookings")
)

// notifications
var (
	ErrNotificationListFailed = newError(6090, KindInternal, "failed to list notifications")
	ErrMarkReadTargetRequired = newError(6100, KindValidation, "notification_id or mark_all_as_read is required")
	ErrNotificationNotFound   = newError(6101, KindNotFound, "notification not found")
	ErrNotificationNotOwner   = newError(6102, KindForbidden, "notification belongs to another user")
	ErrMarkReadFailed         = newError(6103, KindInternal, "failed to mark notification read")
)

var ErrArchiveFailed = newError(7001, KindInternal, "archive sweep failed")

// storeError maps an error from the repository layer onto the AppError taxonomy.
// AppErrors raised inside a transaction pass through unchanged.
func storeError(err error, fallback *AppError) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, database.ErrBusy):
		return ErrStoreBusy.Wrap(err)
	case database.IsTimeout(err):
		return ErrStoreTimeout.Wrap(err)
	}
	return fallback.Wrap(err)
}
