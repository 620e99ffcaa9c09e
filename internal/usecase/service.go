package usecase

import (
	"context"
	"time"

	"boxing-booking/internal/data/repository"
	"boxing-booking/internal/notify"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Slot         SlotService
	Booking      BookingService
	Profile      ProfileService
	Stats        StatsService
	Notification NotificationService
	Archive      ArchiveService
}

// Options carries the time source and the tunable business rules.
type Options struct {
	Clock             utils.Clock
	Location          *time.Location
	CancelCutoff      time.Duration
	PublishWindowDays int
	MaxBoxers         int
	// CallTimeout bounds every store round trip made by one operation.
	CallTimeout time.Duration

	ArchiveBatchSize   int
	NotificationMaxAge time.Duration
}

func DefaultOptions() Options {
	return Options{
		Clock:              utils.SystemClock{},
		Location:           time.Local,
		CancelCutoff:       30 * time.Minute,
		PublishWindowDays:  7,
		MaxBoxers:          50,
		CallTimeout:        5 * time.Second,
		ArchiveBatchSize:   20,
		NotificationMaxAge: 30 * 24 * time.Hour,
	}
}

// OptionsFromConfig maps the loaded configuration onto Options, keeping
// defaults for unset values.
func OptionsFromConfig(config *utils.Config) (Options, error) {
	opts := DefaultOptions()

	loc, err := config.App.Location()
	if err != nil {
		return opts, err
	}
	opts.Location = loc

	if config.Booking.CancelCutoff > 0 {
		opts.CancelCutoff = config.Booking.CancelCutoff
	}
	if config.Booking.PublishWindowDays > 0 {
		opts.PublishWindowDays = config.Booking.PublishWindowDays
	}
	if config.Booking.MaxBoxers > 0 {
		opts.MaxBoxers = config.Booking.MaxBoxers
	}
	if config.Database.QueryTimeout > 0 {
		opts.CallTimeout = config.Database.QueryTimeout
	}
	if config.Archive.BatchSize > 0 {
		opts.ArchiveBatchSize = config.Archive.BatchSize
	}
	if config.Archive.NotificationMaxAgeDay > 0 {
		opts.NotificationMaxAge = time.Duration(config.Archive.NotificationMaxAgeDay) * 24 * time.Hour
	}
	return opts, nil
}

func (o Options) now() time.Time {
	return o.Clock.Now().In(o.Location)
}

func (o Options) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.CallTimeout)
}

func NewService(repo *repository.Repository, dispatcher notify.Dispatcher, opts Options, log *zap.Logger) *Service {
	if opts.Clock == nil {
		opts.Clock = utils.SystemClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &Service{
		Slot:         NewSlotService(repo, opts, log),
		Booking:      NewBookingService(repo, dispatcher, opts, log),
		Profile:      NewProfileService(repo, opts, log),
		Stats:        NewStatsService(repo, opts, log),
		Notification: NewNotificationService(repo, opts, log),
		Archive:      NewArchiveService(repo, opts, log),
	}
}

// logFailure logs business rejections at Warn and infrastructure failures at Error.
func logFailure(log *zap.Logger, msg string, err *AppError, fields ...zap.Field) {
	fields = append(fields, zap.Int("errcode", err.Code), zap.Error(err))
	switch err.Kind {
	case KindInternal, KindUnavailable:
		log.Error(msg, fields...)
	default:
		log.Warn(msg, fields...)
	}
}
