package notify

import (
	"context"
	"fmt"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/repository"
	"boxing-booking/pkg/metrics"
	"boxing-booking/pkg/utils"

	"go.uber.org/zap"
)

type WorkerConfig struct {
	MaxAttempts int
	PollTimeout time.Duration
	RetryDelay  time.Duration
	CallTimeout time.Duration
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = 2 * time.Second
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 5 * time.Second
	}
	return c
}

// Worker turns queued events into stored notifications and pushes them.
type Worker struct {
	queue  Queue
	repo   repository.NotificationRepository
	pusher Pusher
	clock  utils.Clock
	cfg    WorkerConfig
	log    *zap.Logger
}

func NewWorker(queue Queue, repo repository.NotificationRepository, pusher Pusher, clock utils.Clock, cfg WorkerConfig, log *zap.Logger) *Worker {
	return &Worker{
		queue:  queue,
		repo:   repo,
		pusher: pusher,
		clock:  clock,
		cfg:    cfg.withDefaults(),
		log:    log.With(zap.String("component", "notify_worker")),
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.log.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Notification worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *Worker) processNext(ctx context.Context) {
	ev, err := w.queue.Pop(ctx, w.cfg.PollTimeout)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Warn("Failed to read notification queue", zap.Error(err))
			w.sleep(ctx, w.cfg.PollTimeout)
		}
		return
	}
	if ev == nil {
		return
	}
	w.Handle(ctx, *ev)
}

// Handle delivers one event, re-queueing it until MaxAttempts is reached.
func (w *Worker) Handle(ctx context.Context, ev Event) error {
	ev.Attempt++

	err := w.deliver(ctx, ev)
	if err == nil {
		metrics.RecordNotification("delivered")
		w.log.Info("Notification event delivered",
			zap.String("event_id", ev.ID),
			zap.String("type", string(ev.Type)),
			zap.Int("attempt", ev.Attempt),
		)
		return nil
	}

	w.log.Warn("Failed to deliver notification event",
		zap.Error(err),
		zap.String("event_id", ev.ID),
		zap.Int("attempt", ev.Attempt),
	)

	if ev.Attempt < w.cfg.MaxAttempts {
		w.sleep(ctx, w.cfg.RetryDelay)
		// the worker is the queue's only consumer, so a full queue must not block it
		pushErr := w.withTimeout(ctx, func(callCtx context.Context) error {
			return w.queue.Push(callCtx, ev)
		})
		if pushErr == nil {
			metrics.RecordNotification("retried")
			return err
		}
		w.log.Warn("Failed to re-queue notification event",
			zap.Error(pushErr),
			zap.String("event_id", ev.ID),
		)
	}

	metrics.RecordNotification("dropped")
	w.log.Error("Notification event dropped",
		zap.String("event_id", ev.ID),
		zap.Int("attempts", ev.Attempt),
		zap.Error(err),
	)
	buryErr := w.withTimeout(ctx, func(callCtx context.Context) error {
		return w.queue.Bury(callCtx, ev, err)
	})
	if buryErr != nil {
		w.log.Error("Failed to park dropped event", zap.Error(buryErr), zap.String("event_id", ev.ID))
	}
	return err
}

func (w *Worker) deliver(ctx context.Context, ev Event) error {
	now := w.clock.Now()
	slotID := ev.Slot.SlotID
	boxerID := ev.BoxerID

	for _, msg := range ev.Messages() {
		n := &entity.Notification{
			NotificationID:  ev.NotificationID(msg.RecipientUserID),
			RecipientUserID: msg.RecipientUserID,
			Type:            ev.Type,
			Title:           msg.Title,
			Content:         msg.Content,
			RelatedSlotID:   &slotID,
			RelatedBoxerID:  &boxerID,
		}
		n.CreatedAt = now
		n.UpdatedAt = now

		callCtx, cancel := context.WithTimeout(ctx, w.cfg.CallTimeout)
		err := w.repo.Create(callCtx, n)
		cancel()
		if err != nil {
			return fmt.Errorf("store notification for %s: %w", utils.MaskID(msg.RecipientUserID), err)
		}

		if err := w.pusher.Push(ctx, n); err != nil {
			w.log.Warn("Push side channel failed",
				zap.Error(err),
				zap.String("notification_id", n.NotificationID),
			)
		}
	}
	return nil
}

// withTimeout runs fn detached from ctx cancellation but bounded by CallTimeout.
func (w *Worker) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.cfg.CallTimeout)
	defer cancel()
	return fn(callCtx)
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
