// Package scheduler runs a job on a fixed interval in the background.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one unit of periodic work. Its error is logged and the next tick still fires.
type Job func(ctx context.Context) error

type Runner struct {
	name     string
	interval time.Duration
	job      Job
	log      *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// DefaultInterval replaces a non-positive interval, which time.NewTicker would reject.
const DefaultInterval = 24 * time.Hour

func NewRunner(name string, interval time.Duration, job Job, log *zap.Logger) *Runner {
	log = log.With(zap.String("job", name))
	if interval <= 0 {
		log.Warn("Non-positive scheduler interval, using default",
			zap.Duration("interval", interval),
			zap.Duration("default", DefaultInterval))
		interval = DefaultInterval
	}
	return &Runner{
		name:     name,
		interval: interval,
		job:      job,
		log:      log,
	}
}

// Start runs the job once right away, then on every tick until ctx is done or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run(ctx)

	r.log.Info("Scheduler started", zap.Duration("interval", r.interval))
}

// Stop cancels the loop and waits for an in-flight run to return.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	r.wg.Wait()
	r.log.Info("Scheduler stopped")
}

func (r *Runner) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	start := time.Now()
	if err := r.job(ctx); err != nil {
		r.log.Error("Scheduled job failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	r.log.Debug("Scheduled job finished", zap.Duration("duration", time.Since(start)))
}
