package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notiq/internal/config"
	"notiq/internal/domain/notification"
	"notiq/internal/domain/user"
	"notiq/internal/infra/queue"
	"notiq/internal/infra/ratelimit"
	"notiq/internal/infra/store"
	"notiq/internal/router"

	"github.com/hibiken/asynq"
)

// queueEnqueuer adapts the asynq client to the notification.Enqueuer interface.
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

	slog.Info("configuration loaded", "port", cfg.Server.Port, "mode", cfg.Server.Mode)

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Supabase stores
	notifStore, err := store.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		slog.Error("failed to initialize notification store", "error", err)
		os.Exit(1)
	}

	userStore, err := store.NewSupabaseUserStore(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		slog.Error("failed to initialize user store", "error", err)
		os.Exit(1)
	}
	slog.Info("supabase stores initialized")

	// Asynq client (for enqueuing delivery tasks)
	asynqClient := queue.NewClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer asynqClient.Close()
	slog.Info("asynq client initialized", "redis", cfg.Redis.Address)

	// Per-user delivery limiter
	deliveryLimiter := ratelimit.NewRedisDeliveryLimiter(
		cfg.Redis.Address,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.DeliveryLimit.MaxPerWindow,
		time.Duration(cfg.DeliveryLimit.WindowHours)*time.Hour,
	)
	defer deliveryLimiter.Close()
	slog.Info("delivery limiter initialized",
		"max_per_window", cfg.DeliveryLimit.MaxPerWindow,
		"window_hours", cfg.DeliveryLimit.WindowHours,
	)

	// Enqueuer adapter
	enqueuer := &queueEnqueuer{
		client:   asynqClient,
		maxRetry: cfg.Queue.MaxRetry,
	}

	// Services
	notificationService := notification.NewService(notifStore, enqueuer, deliveryLimiter)
	userService := user.NewService(
		userStore,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinute)*time.Minute,
	)

	// Handlers
	notificationHandler := notification.NewHandler(notificationService)
	userHandler := user.NewHandler(userService)

	// Router
	r := router.New(cfg, notificationHandler, userHandler)

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Give outstanding requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
