package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"

	"github.com/kydzoster/e-learning-dj-linux/internal/metrics"
	"go.uber.org/zap"
)

type sweepService struct {
	contentRepo ContentRepository
	metrics     *metrics.Collector
	logger      *zap.Logger
}

// NewSweepService creates a service removing contents whose item no longer exists
func NewSweepService(contentRepo ContentRepository, m *metrics.Collector, logger *zap.Logger) *sweepService {
	return &sweepService{
		contentRepo: contentRepo,
		metrics:     m,
		logger:      logger,
	}
}

// Sweep deletes every dangling content row.
// A row removed by someone else in the meantime is not counted.
//
// Returns the number of deleted rows and an error if any.
func (s *sweepService) Sweep(ctx context.Context) (int, error) {
	dangling, err := s.contentRepo.GetDangling(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, content := range dangling {
		err := s.contentRepo.Delete(ctx, content.ID)
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Debug("dangling content already removed", zap.Int("content_id", content.ID))
			continue
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to delete dangling content %d: %w", content.ID, err)
		}
		deleted++
		s.metrics.DanglingContents.WithLabelValues("sweep").Inc()
		s.logger.Info("removed dangling content",
			zap.Int("content_id", content.ID),
			zap.Int("module_id", content.ModuleID),
			zap.String("kind", string(content.Kind)),
			zap.Int("item_id", content.ItemID),
		)
	}

	return deleted, nil
}
