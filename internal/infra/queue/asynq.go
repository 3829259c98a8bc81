package queue

import (
	"fmt"
	"time"

	"notiq/internal/domain/notification"

	"github.com/hibiken/asynq"
)

// NewClient creates a new asynq client connected to Redis.
func NewClient(redisAddr, password string, db int) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})
}

// NewServer creates a new asynq server connected to Redis.
func NewServer(redisAddr, password string, db int, concurrency int) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"notifications": 10, // priority weight
				"default":       1,
			},
			RetryDelayFunc: func(n int, e error, t *asynq.Task) time.Duration {
				// Exponential backoff: 30s, 60s, 120s, ... Only relevant
				// when max_retry is raised above its zero default.
				return time.Duration(30*(1<<uint(n-1))) * time.Second
			},
		},
	)
}

// EnqueueDelivery enqueues a delivery task for the given notification.
func EnqueueDelivery(client *asynq.Client, n *notification.Notification, maxRetry int) error {
	task, err := notification.NewDeliveryTask(n)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	_, err = client.Enqueue(task,
		asynq.MaxRetry(maxRetry),
		asynq.Queue("notifications"),
	)
	if err != nil {
		return fmt.Errorf("enqueuing task: %w", err)
	}

	return nil
}
