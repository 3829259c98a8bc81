package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notiq/internal/config"
	"notiq/internal/domain/notification"
	"notiq/internal/infra/delivery"
	"notiq/internal/infra/queue"
	"notiq/internal/infra/ratelimit"
	"notiq/internal/infra/store"

	"github.com/hibiken/asynq"
)

// queueEnqueuer adapts the asynq client to the notification.Enqueuer interface.
// Used by the reaper to re-enqueue stale records.
type queueEnqueuer struct {
	client   *asynq.Client
	maxRetry int
}

func (q *queueEnqueuer) EnqueueDelivery(n *notification.Notification) error {
	return queue.EnqueueDelivery(q.client, n, q.maxRetry)
}

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("worker configuration loaded")

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Supabase store
	notifStore, err := store.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		slog.Error("failed to initialize notification store", "error", err)
		os.Exit(1)
	}
	slog.Info("supabase store initialized")

	// Per-user delivery limiter (incremented on confirmed deliveries)
	deliveryLimiter := ratelimit.NewRedisDeliveryLimiter(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.DeliveryLimit.MaxPerWindow,
		time.Duration(cfg.DeliveryLimit.WindowHours)*time.Hour,
	)
	defer deliveryLimiter.Close()

	// Channel deliverers
	emailDeliverer := delivery.NewEmailDeliverer(cfg.Delivery.EmailFail)
	smsDeliverer := delivery.NewSMSDeliverer(cfg.Delivery.SMSFail)

	// Delivery worker
	worker := notification.NewWorker(notifStore, deliveryLimiter, emailDeliverer, smsDeliverer)

	// Asynq client (for reaper re-enqueuing)
	asynqClient := queue.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer asynqClient.Close()

	enqueuer := &queueEnqueuer{
		client:   asynqClient,
		maxRetry: cfg.Queue.MaxRetry,
	}

	// ==========================================
	// Asynq Server (task processing)
	// ==========================================

	asynqServer := queue.NewServer(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Queue.Concurrency,
	)

	// Register task handlers
	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TaskTypeDeliver, func(ctx context.Context, task *asynq.Task) error {
		payload, err := notification.ParseDeliveryPayload(task.Payload())
		if err != nil {
			return err
		}
		return worker.ProcessTask(ctx, payload)
	})

	// Start the asynq worker in a goroutine
	go func() {
		slog.Info("worker starting",
			"concurrency", cfg.Queue.Concurrency,
			"redis", cfg.Redis.Address,
		)
		if err := asynqServer.Run(mux); err != nil {
			slog.Error("worker failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// ==========================================
	// Stale Record Reaper
	// ==========================================

	reaperCtx, reaperCancel := context.WithCancel(context.Background())
	defer reaperCancel()

	reaper := notification.NewReaper(notifStore, enqueuer, notification.ReaperConfig{
		Interval:       time.Duration(cfg.Reaper.IntervalSec) * time.Second,
		StaleThreshold: time.Duration(cfg.Reaper.StaleThresholdSec) * time.Second,
		BatchSize:      cfg.Reaper.BatchSize,
	})

	go reaper.Run(reaperCtx)

	// ==========================================
	// Graceful Shutdown
	// ==========================================

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	reaperCancel() // Stop the reaper first
	asynqServer.Shutdown()
	slog.Info("worker exited gracefully")
}
