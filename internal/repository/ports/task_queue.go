package ports

import "context"

// TaskPublisher enqueues background work. Handlers are registered on the queue
// worker side; publishers only need the task type and a JSON-serializable payload.
type TaskPublisher interface {
	Publish(ctx context.Context, taskType string, payload any) error
}
