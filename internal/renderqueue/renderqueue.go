// Package renderqueue optionally hands the render_cut operation off to
// asynq instead of running it inline, using the same server/retry
// configuration shape as the teacher's internal/queue/redis_consumer.go.
// Unlike the teacher, asynq here backs a single operation, not the
// primary work queue — sessions still run synchronously end to end.
package renderqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTypeRenderCut is the asynq task type for a queued render.
const TaskTypeRenderCut = "silencecutter:render_cut"

// RenderCutPayload identifies which session's render to run.
type RenderCutPayload struct {
	SessionID string `json:"sessionId"`
}

// Queue enqueues render_cut tasks onto Redis via asynq. A Queue with no
// client (constructed with an empty redisURL) means the caller should
// run the render inline instead.
type Queue struct {
	client *asynq.Client
}

// New builds a Queue backed by redisURL, or a no-op Queue when redisURL
// is empty (spec.md's Non-goals rule out session-state persistence, so
// this stays scoped to the one render operation).
func New(redisURL string) (*Queue, error) {
	if redisURL == "" {
		return &Queue{}, nil
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL for render queue: %w", err)
	}
	return &Queue{client: asynq.NewClient(opt)}, nil
}

// Enabled reports whether this Queue is backed by Redis.
func (q *Queue) Enabled() bool {
	return q.client != nil
}

// Enqueue submits a render_cut task for sessionID.
func (q *Queue) Enqueue(ctx context.Context, sessionID string) error {
	if q.client == nil {
		return fmt.Errorf("render queue not configured")
	}
	payload, err := json.Marshal(RenderCutPayload{SessionID: sessionID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskTypeRenderCut, payload)
	_, err = q.client.EnqueueContext(ctx, task)
	return err
}

// Close releases the underlying asynq client.
func (q *Queue) Close() error {
	if q.client == nil {
		return nil
	}
	return q.client.Close()
}

// NewServer builds an asynq server, in the shape of the teacher's
// redis_consumer.go, that waits n² seconds before the n-th retry and
// passes task failures to errorHandler, for processes that want to run
// render_cut out of the queue.
func NewServer(redisURL string, concurrency int, errorHandler func(ctx context.Context, task *asynq.Task, err error)) (*asynq.Server, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL for render queue server: %w", err)
	}
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		RetryDelayFunc: func(n int, e error, t *asynq.Task) time.Duration {
			return time.Duration(n*n) * time.Second
		},
		ErrorHandler: asynq.ErrorHandlerFunc(errorHandler),
	}), nil
}
