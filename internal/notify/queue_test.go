package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"boxing-booking/internal/data/entity"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() Event {
	ev := NewEvent(entity.NotificationNewBooking, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	ev.GymUserID = "gym-user"
	ev.OtherBoxerUserIDs = []string{"boxer-b"}
	ev.BoxerID = "boxer_a"
	ev.BoxerName = "Rocky"
	ev.Slot = SlotInfo{SlotID: "slot_1", Date: "2026-03-02", StartTime: "18:00", EndTime: "19:00", AvailableSpots: 1}
	return ev
}

func TestRedisQueuePush(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush("notifications:events", `.*`).SetVal(1)

	q := NewRedisQueue(db, "notifications:events")
	err := q.Push(context.Background(), sampleEvent())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisQueuePushError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush("notifications:events", `.*`).SetErr(errors.New("connection refused"))

	q := NewRedisQueue(db, "notifications:events")
	err := q.Push(context.Background(), sampleEvent())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisQueuePop(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ev := sampleEvent()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	mock.ExpectBRPop(time.Second, "notifications:events").SetVal([]string{"notifications:events", string(data)})

	q := NewRedisQueue(db, "notifications:events")
	got, err := q.Pop(context.Background(), time.Second)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, "Rocky", got.BoxerName)
	assert.Equal(t, 1, got.Slot.AvailableSpots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisQueuePopEmpty(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectBRPop(time.Second, "notifications:events").RedisNil()

	q := NewRedisQueue(db, "notifications:events")
	got, err := q.Pop(context.Background(), time.Second)

	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisQueueBury(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush("notifications:events:failed", `.*`).SetVal(1)

	q := NewRedisQueue(db, "notifications:events")
	err := q.Bury(context.Background(), sampleEvent(), errors.New("store down"))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisQueueLen(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen("notifications:events").SetVal(4)

	q := NewRedisQueue(db, "notifications:events")
	n, err := q.Len(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestMemoryQueue(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, sampleEvent()))
	assert.Equal(t, 1, q.Len())

	// full queue gives up when the context does
	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.Error(t, q.Push(short, sampleEvent()))

	got, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.NotNil(t, got)

	got, err = q.Pop(ctx, 10*time.Millisecond)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
