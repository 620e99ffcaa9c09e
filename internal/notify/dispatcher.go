package notify

import (
	"context"
	"sync"
	"time"

	"boxing-booking/pkg/metrics"

	"go.uber.org/zap"
)

// Dispatcher hands committed booking events to the notification pipeline.
// Dispatch never fails the caller; delivery problems are logged and counted.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}

type QueueDispatcher struct {
	queue   Queue
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewQueueDispatcher(queue Queue, timeout time.Duration, log *zap.Logger) *QueueDispatcher {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &QueueDispatcher{
		queue:   queue,
		timeout: timeout,
		log:     log.With(zap.String("component", "dispatcher")),
	}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, ev Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		// the request may finish before the enqueue does
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.queue.Push(pushCtx, ev); err != nil {
			metrics.RecordNotification("failed")
			d.log.Error("Failed to enqueue notification event",
				zap.Error(err),
				zap.String("event_id", ev.ID),
				zap.String("type", string(ev.Type)),
				zap.String("slot_id", ev.Slot.SlotID),
			)
			return
		}

		metrics.RecordNotification("queued")
		d.log.Debug("Notification event queued", zap.String("event_id", ev.ID), zap.String("type", string(ev.Type)))
	}()
}

// Wait blocks until every in-flight enqueue has finished.
func (d *QueueDispatcher) Wait() {
	d.wg.Wait()
}
