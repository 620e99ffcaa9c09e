package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"boxing-booking/internal/data/repository"
	"boxing-booking/internal/dto/response"
	"boxing-booking/pkg/metrics"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ArchiveService flags stale records archived=true. Records are never
// deleted and already archived rows are excluded from every scan, so a sweep
// can be re-run or resumed after a partial failure.
type ArchiveService interface {
	Run(ctx context.Context) (*response.ArchiveSummary, error)
}

type archiveService struct {
	repo *repository.Repository
	opts Options
	log  *zap.Logger
}

func NewArchiveService(repo *repository.Repository, opts Options, log *zap.Logger) ArchiveService {
	return &archiveService{
		repo: repo,
		opts: opts,
		log:  log.With(zap.String("service", "archive")),
	}
}

type archiveFunc func(ctx context.Context, id string, now time.Time) (bool, error)

func (s *archiveService) Run(ctx context.Context) (*response.ArchiveSummary, error) {
	now := s.opts.now()
	today := utils.Today(now, s.opts.Location)
	summary := &response.ArchiveSummary{Date: today, ExecutedAt: now}

	fail := func(msg string, err error) (*response.ArchiveSummary, error) {
		appErr := ErrArchiveFailed.Wrap(err)
		logFailure(s.log, msg, appErr,
			zap.Int("gym_slots", summary.GymSlots.Archived),
			zap.Int("slot_bookings", summary.SlotBookings.Archived),
			zap.Int("notifications", summary.Notifications.Archived),
		)
		return nil, appErr
	}

	slotIDs, err := s.list(ctx, func(ctx context.Context) ([]string, error) {
		return s.repo.Slot.ListStaleIDs(ctx, today)
	})
	if err != nil {
		return fail("Failed to scan stale slots", err)
	}
	summary.GymSlots.Archived, err = s.sweep(ctx, slotIDs, now, s.repo.Slot.Archive)
	metrics.RecordArchived("gym_slots", summary.GymSlots.Archived)
	if err != nil {
		return fail("Failed to archive slots", err)
	}

	// bookings follow their slots, including slots archived by an earlier run
	bookingIDs, err := s.list(ctx, s.repo.Booking.ListArchivableIDs)
	if err != nil {
		return fail("Failed to scan bookings of archived slots", err)
	}
	summary.SlotBookings.Archived, err = s.sweep(ctx, bookingIDs, now, s.repo.Booking.Archive)
	metrics.RecordArchived("slot_bookings", summary.SlotBookings.Archived)
	if err != nil {
		return fail("Failed to archive bookings", err)
	}

	cutoff := now.Add(-s.opts.NotificationMaxAge)
	notificationIDs, err := s.list(ctx, func(ctx context.Context) ([]string, error) {
		return s.repo.Notification.ListStaleIDs(ctx, cutoff)
	})
	if err != nil {
		return fail("Failed to scan stale notifications", err)
	}
	summary.Notifications.Archived, err = s.sweep(ctx, notificationIDs, now, s.repo.Notification.Archive)
	metrics.RecordArchived("notifications", summary.Notifications.Archived)
	if err != nil {
		return fail("Failed to archive notifications", err)
	}

	s.log.Info("Archive sweep finished",
		zap.String("date", today),
		zap.Int("gym_slots", summary.GymSlots.Archived),
		zap.Int("slot_bookings", summary.SlotBookings.Archived),
		zap.Int("notifications", summary.Notifications.Archived),
	)
	return summary, nil
}

func (s *archiveService) list(ctx context.Context, scan func(ctx context.Context) ([]string, error)) ([]string, error) {
	ctx, cancel := s.opts.bound(ctx)
	defer cancel()
	return scan(ctx)
}

// sweep archives ids chunk by chunk, issuing each chunk's updates in parallel.
func (s *archiveService) sweep(ctx context.Context, ids []string, now time.Time, archive archiveFunc) (int, error) {
	batch := s.opts.ArchiveBatchSize
	if batch <= 0 {
		batch = 20
	}

	var archived atomic.Int64
	for start := 0; start < len(ids); start += batch {
		end := min(start+batch, len(ids))

		g, gctx := errgroup.WithContext(ctx)
		for _, id := range ids[start:end] {
			id := id
			g.Go(func() error {
				callCtx, cancel := s.opts.bound(gctx)
				defer cancel()

				changed, err := archive(callCtx, id, now)
				if err != nil {
					return err
				}
				if changed {
					archived.Add(1)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return int(archived.Load()), err
		}
	}
	return int(archived.Load()), nil
}
