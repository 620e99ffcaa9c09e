package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue carries events from request handlers to the Worker.
type Queue interface {
	Push(ctx context.Context, ev Event) error
	// Pop waits up to timeout for the next event and returns nil when none arrived.
	Pop(ctx context.Context, timeout time.Duration) (*Event, error)
	// Bury parks an event that exhausted its retries.
	Bury(ctx context.Context, ev Event, cause error) error
}

type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Push(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.ID, err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("push event %s: %w", ev.ID, err)
	}
	return nil
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (*Event, error) {
	result, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pop event: %w", err)
	}

	var ev Event
	if err := json.Unmarshal([]byte(result[1]), &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &ev, nil
}

func (q *RedisQueue) Bury(ctx context.Context, ev Event, cause error) error {
	failed := map[string]any{
		"event": ev,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, err := json.Marshal(failed)
	if err != nil {
		return fmt.Errorf("marshal failed event %s: %w", ev.ID, err)
	}
	return q.client.LPush(ctx, q.key+":failed", data).Err()
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// MemoryQueue is the in-process Queue used when no redis address is configured.
type MemoryQueue struct {
	ch chan Event

	mu     sync.Mutex
	buried []Event
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{ch: make(chan Event, size)}
}

func (q *MemoryQueue) Push(ctx context.Context, ev Event) error {
	select {
	case q.ch <- ev:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("push event %s: %w", ev.ID, ctx.Err())
	}
}

func (q *MemoryQueue) Pop(ctx context.Context, timeout time.Duration) (*Event, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-q.ch:
		return &ev, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryQueue) Bury(ctx context.Context, ev Event, cause error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buried = append(q.buried, ev)
	return nil
}

func (q *MemoryQueue) Buried() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Event(nil), q.buried...)
}

func (q *MemoryQueue) Len() int {
	return len(q.ch)
}
