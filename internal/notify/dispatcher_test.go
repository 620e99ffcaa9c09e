package notify

import (
	"context"
	"testing"
	"time"

	"boxing-booking/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDispatchEnqueues(t *testing.T) {
	q := NewMemoryQueue(4)
	d := NewQueueDispatcher(q, time.Second, zap.NewNop())
	before := testutil.ToFloat64(metrics.NotificationsDispatchedTotal.WithLabelValues("queued"))

	d.Dispatch(context.Background(), sampleEvent())
	d.Wait()

	assert.Equal(t, 1, q.Len())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotificationsDispatchedTotal.WithLabelValues("queued")))
}

func TestDispatchSurvivesCancelledRequest(t *testing.T) {
	q := NewMemoryQueue(4)
	d := NewQueueDispatcher(q, time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Dispatch(ctx, sampleEvent())
	d.Wait()

	assert.Equal(t, 1, q.Len())
}

func TestDispatchFailureIsSwallowed(t *testing.T) {
	q := NewMemoryQueue(0)
	d := NewQueueDispatcher(q, 10*time.Millisecond, zap.NewNop())
	before := testutil.ToFloat64(metrics.NotificationsDispatchedTotal.WithLabelValues("failed"))

	d.Dispatch(context.Background(), sampleEvent())
	d.Wait()

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotificationsDispatchedTotal.WithLabelValues("failed")))
}
