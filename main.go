package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"boxing-booking/cmd"
	"boxing-booking/internal/data/repository"
	"boxing-booking/internal/notify"
	"boxing-booking/internal/wire"
	"boxing-booking/pkg/database"
	"boxing-booking/pkg/scheduler"
	"boxing-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		if err := database.RunMigrations(config.Database.DSN(), logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	repos := repository.NewRepository(db, logger, repository.TxConfig{
		Retries: config.Database.TxRetries,
		Timeout: config.Database.QueryTimeout,
	})

	// Notification pipeline
	queue, closeQueue := newQueue(ctx, config.Redis, logger)
	defer closeQueue()

	dispatcher := notify.NewQueueDispatcher(queue, config.Push.Timeout, logger)
	worker := notify.NewWorker(queue, repos.Notification, newPusher(config.Push, logger), utils.SystemClock{},
		notify.WorkerConfig{CallTimeout: config.Database.QueryTimeout}, logger)

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	// Wire all dependencies
	app, err := wire.Wiring(repos, dispatcher, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	go app.RateLimiter.Cleanup(ctx, time.Minute)

	if config.Archive.Enabled {
		sweeper := scheduler.NewRunner("archive", config.Archive.Interval, func(ctx context.Context) error {
			_, err := app.Service.Archive.Run(ctx)
			return err
		}, logger)
		sweeper.Start(ctx)
		defer sweeper.Stop()
	}

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("HTTP server stopped with error", zap.Error(err))
	}

	stop()
	dispatcher.Wait()
	<-workerDone
	logger.Info("Shutdown complete")
}

// newQueue uses redis when REDIS_ADDR is set and falls back to an in-process queue.
func newQueue(ctx context.Context, config utils.RedisConfig, logger *zap.Logger) (notify.Queue, func()) {
	if config.Addr == "" {
		logger.Warn("REDIS_ADDR not set, notification events stay in process")
		return notify.NewMemoryQueue(1024), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", config.Addr))
	}

	logger.Info("Redis connected", zap.String("addr", config.Addr), zap.String("queue", config.QueueKey))
	return notify.NewRedisQueue(client, config.QueueKey), func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
}

func newPusher(config utils.PushConfig, logger *zap.Logger) notify.Pusher {
	if config.WebhookURL == "" {
		return notify.NewLogPusher(logger)
	}
	return notify.NewWebhookPusher(config.WebhookURL, config.Timeout)
}
