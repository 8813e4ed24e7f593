// Package tasks defines the background tasks exchanged through asynq
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/kydzoster/e-learning-dj-linux/internal/metrics"
	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
)

// Task types
const (
	TypeMediaDelete  = "media:delete"
	TypeContentSweep = "content:sweep"
)

// Queues served by the worker
const (
	QueueCleanup = "cleanup"
	QueueDefault = "default"
)

// MediaDeletePayload identifies a stored file to remove from the media service
type MediaDeletePayload struct {
	MediaType string `json:"mediaType"`
	FileRef   string `json:"fileRef"`
}

// NewMediaDeleteTask builds a media:delete task
func NewMediaDeleteTask(mediaType, fileRef string) (*asynq.Task, error) {
	payload, err := json.Marshal(MediaDeletePayload{MediaType: mediaType, FileRef: fileRef})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal media delete payload: %w", err)
	}
	return asynq.NewTask(TypeMediaDelete, payload, asynq.Queue(QueueCleanup), asynq.MaxRetry(5)), nil
}

// ParseMediaDeletePayload decodes the payload of a media:delete task
func ParseMediaDeletePayload(t *asynq.Task) (MediaDeletePayload, error) {
	var payload MediaDeletePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return MediaDeletePayload{}, fmt.Errorf("failed to unmarshal media delete payload: %w", err)
	}
	if payload.MediaType == "" || payload.FileRef == "" {
		return MediaDeletePayload{}, fmt.Errorf("media delete payload requires mediaType and fileRef")
	}
	return payload, nil
}

// NewContentSweepTask builds a content:sweep task. Only one sweep can be queued at a time.
func NewContentSweepTask() *asynq.Task {
	return asynq.NewTask(TypeContentSweep, nil, asynq.Queue(QueueDefault), asynq.Unique(time.Hour), asynq.MaxRetry(1))
}

// Enqueuer is implemented by *asynq.Client
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Client enqueues platform tasks
type Client struct {
	enqueuer Enqueuer
	metrics  *metrics.Collector
	logger   *zap.Logger
}

// NewClient creates a new task client
func NewClient(enqueuer Enqueuer, m *metrics.Collector, logger *zap.Logger) *Client {
	return &Client{
		enqueuer: enqueuer,
		metrics:  m,
		logger:   logger,
	}
}

// EnqueueMediaDelete schedules removal of the stored file behind a file or image item
func (c *Client) EnqueueMediaDelete(ctx context.Context, kind models.ItemKind, fileRef string) error {
	if !kind.HasStoredFile() {
		return fmt.Errorf("%w: %s items have no stored file", models.ErrInvalidKind, kind)
	}

	task, err := NewMediaDeleteTask(string(kind), fileRef)
	if err != nil {
		return err
	}

	return c.enqueue(ctx, task)
}

// EnqueueContentSweep schedules a sweep of dangling content rows
func (c *Client) EnqueueContentSweep(ctx context.Context) error {
	err := c.enqueue(ctx, NewContentSweepTask())
	if errors.Is(err, asynq.ErrDuplicateTask) {
		c.logger.Debug("content sweep already queued")
		return nil
	}
	return err
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := c.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		if !errors.Is(err, asynq.ErrDuplicateTask) {
			c.metrics.TasksFailed.WithLabelValues(task.Type()).Inc()
		}
		return fmt.Errorf("failed to enqueue %s task: %w", task.Type(), err)
	}

	c.metrics.TasksEnqueued.WithLabelValues(task.Type()).Inc()
	c.logger.Debug("task enqueued", zap.String("type", task.Type()), zap.String("id", info.ID), zap.String("queue", info.Queue))
	return nil
}
