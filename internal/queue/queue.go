// Package queue implements a small Redis-list-backed task queue used for
// background notification work. Tasks are JSON envelopes pushed with LPUSH and
// consumed with BRPOP; failed tasks are re-queued until their retry budget is
// spent.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/atlastravel/backend/internal/repository/ports"
)

const (
	defaultMaxRetries = 3
	defaultPopTimeout = 5 * time.Second
	defaultRetryDelay = 2 * time.Second
)

const (
	TaskPaymentConfirmationEmail = "payment_confirmation_email"
	TaskPaymentFailedEmail       = "payment_failed_email"
)

type Task struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempts  int             `json:"attempts"`
	CreatedAt time.Time       `json:"created_at"`
}

// Handler processes one task. A returned error sends the task back through the
// retry path.
type Handler func(ctx context.Context, task *Task) error

type Config struct {
	Addr       string
	Password   string
	DB         int
	QueueName  string
	MaxRetries int
	PopTimeout time.Duration
	RetryDelay time.Duration
}

type RedisQueue struct {
	client     *redis.Client
	queueName  string
	maxRetries int
	popTimeout time.Duration
	retryDelay time.Duration
	handlers   map[string]Handler
}

func NewRedisQueue(cfg Config) (*RedisQueue, error) {
	if cfg.QueueName == "" {
		return nil, errors.New("queue: empty queue name")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.PopTimeout <= 0 {
		cfg.PopTimeout = defaultPopTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("queue: connect to redis: %w", err)
	}

	return &RedisQueue{
		client:     client,
		queueName:  cfg.QueueName,
		maxRetries: cfg.MaxRetries,
		popTimeout: cfg.PopTimeout,
		retryDelay: cfg.RetryDelay,
		handlers:   make(map[string]Handler),
	}, nil
}

func (q *RedisQueue) Publish(ctx context.Context, taskType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("queue: marshal payload: %w", err)
	}
	task := Task{
		ID:        uuid.NewString(),
		Type:      taskType,
		Payload:   body,
		CreatedAt: time.Now().UTC(),
	}
	return q.push(ctx, &task)
}

// Register binds a handler to a task type. Registration must happen before Run.
func (q *RedisQueue) Register(taskType string, handler Handler) {
	q.handlers[taskType] = handler
}

// Run consumes tasks until ctx is cancelled.
func (q *RedisQueue) Run(ctx context.Context) {
	log.Printf("queue: worker started on %s", q.queueName)
	for {
		select {
		case <-ctx.Done():
			log.Printf("queue: worker stopped")
			return
		default:
		}

		result, err := q.client.BRPop(ctx, q.popTimeout, q.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Printf("queue: pop failed: %v", err)
			time.Sleep(q.retryDelay)
			continue
		}
		if len(result) != 2 {
			continue
		}

		var task Task
		if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
			log.Printf("queue: dropping malformed task: %v", err)
			continue
		}
		q.process(ctx, &task)
	}
}

func (q *RedisQueue) process(ctx context.Context, task *Task) {
	handler, ok := q.handlers[task.Type]
	if !ok {
		log.Printf("queue: no handler for task type %q, dropping task %s", task.Type, task.ID)
		return
	}

	if err := handler(ctx, task); err != nil {
		task.Attempts++
		if task.Attempts >= q.maxRetries {
			log.Printf("queue: task %s (%s) failed after %d attempts, giving up: %v", task.ID, task.Type, task.Attempts, err)
			return
		}
		log.Printf("queue: task %s (%s) failed (attempt %d/%d), re-queueing: %v", task.ID, task.Type, task.Attempts, q.maxRetries, err)
		time.Sleep(q.retryDelay)
		if pushErr := q.push(ctx, task); pushErr != nil {
			log.Printf("queue: re-queue of task %s failed: %v", task.ID, pushErr)
		}
	}
}

func (q *RedisQueue) push(ctx context.Context, task *Task) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("queue: marshal task: %w", err)
	}
	if err := q.client.LPush(ctx, q.queueName, body).Err(); err != nil {
		return fmt.Errorf("queue: push task: %w", err)
	}
	return nil
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}

var _ ports.TaskPublisher = (*RedisQueue)(nil)
