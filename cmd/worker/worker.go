package main

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/kydzoster/e-learning-dj-linux/internal/tasks"
	"go.uber.org/zap"
)

// MediaDeleter removes stored files from the media service
type MediaDeleter interface {
	// DeleteFile removes a stored file
	//
	// "mediaType" is the kind of the item the file belonged to.
	// "fileRef" is the stored file reference.
	//
	// If the media service rejects the request, the error will be returned.
	DeleteFile(ctx context.Context, mediaType, fileRef string) error
}

// Sweeper removes content rows whose item no longer exists
type Sweeper interface {
	// Sweep deletes every dangling content row
	//
	// Returns the number of deleted rows and an error if any.
	Sweep(ctx context.Context) (int, error)
}

// Worker handles task processing
type Worker struct {
	logger  *zap.Logger
	media   MediaDeleter
	sweeper Sweeper
}

// NewWorker creates a new worker instance
func NewWorker(logger *zap.Logger, media MediaDeleter, sweeper Sweeper) *Worker {
	return &Worker{
		logger:  logger,
		media:   media,
		sweeper: sweeper,
	}
}

// HandleMediaDelete removes the stored file of a deleted file or image item
func (w *Worker) HandleMediaDelete(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseMediaDeletePayload(t)
	if err != nil {
		// A malformed payload will never succeed
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := w.media.DeleteFile(ctx, payload.MediaType, payload.FileRef); err != nil {
		w.logger.Warn("Failed to delete media file",
			zap.String("media_type", payload.MediaType),
			zap.String("file_ref", payload.FileRef),
			zap.Error(err),
		)
		return err
	}

	w.logger.Info("Media file deleted", zap.String("media_type", payload.MediaType), zap.String("file_ref", payload.FileRef))
	return nil
}

// HandleContentSweep deletes dangling content rows
func (w *Worker) HandleContentSweep(ctx context.Context, t *asynq.Task) error {
	deleted, err := w.sweeper.Sweep(ctx)
	if err != nil {
		return err
	}

	w.logger.Info("Content sweep completed", zap.Int("deleted", deleted))
	return nil
}
