package services

import (
	"context"

	"github.com/kydzoster/e-learning-dj-linux/internal/metrics"
	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
)

// PositionUpdater sets positions of rows the acting instructor owns
type PositionUpdater interface {
	// UpdatePositionOwned sets the position of one row if it is owned by ownerID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the row.
	// "position" is the new position.
	// "ownerID" is the ID of the acting instructor.
	//
	// Returns whether a row was updated and an error if any.
	UpdatePositionOwned(ctx context.Context, id, position, ownerID int) (bool, error)
}

type reorderService struct {
	modules  PositionUpdater
	contents PositionUpdater
	metrics  *metrics.Collector
	logger   *zap.Logger
}

// NewReorderService creates a service applying bulk position updates
func NewReorderService(modules, contents PositionUpdater, m *metrics.Collector, logger *zap.Logger) *reorderService {
	return &reorderService{
		modules:  modules,
		contents: contents,
		metrics:  m,
		logger:   logger,
	}
}

// ReorderModules applies a batch of module positions owned by ownerID
func (s *reorderService) ReorderModules(ctx context.Context, ownerID int, req *models.ReorderRequest) (models.ReorderResult, error) {
	return s.apply(ctx, "module", s.modules, ownerID, req)
}

// ReorderContents applies a batch of content positions owned by ownerID
func (s *reorderService) ReorderContents(ctx context.Context, ownerID int, req *models.ReorderRequest) (models.ReorderResult, error) {
	return s.apply(ctx, "content", s.contents, ownerID, req)
}

// apply updates pairs one by one in request order. Rows that are missing or
// owned by someone else are skipped without failing the batch. A database
// error stops the batch; pairs already applied stay applied.
func (s *reorderService) apply(ctx context.Context, kind string, repo PositionUpdater, ownerID int, req *models.ReorderRequest) (models.ReorderResult, error) {
	var result models.ReorderResult

	for _, update := range req.Updates {
		updated, err := repo.UpdatePositionOwned(ctx, update.ID, update.Position, ownerID)
		if err != nil {
			s.metrics.ReorderApplied.WithLabelValues(kind).Add(float64(result.Applied))
			return result, err
		}

		if !updated {
			result.Skipped++
			s.metrics.ReorderSkipped.WithLabelValues(kind).Inc()
			s.logger.Warn("reorder skipped row not owned by caller",
				zap.String("kind", kind),
				zap.Int("id", update.ID),
				zap.Int("owner_id", ownerID),
			)
			continue
		}
		result.Applied++
	}

	s.metrics.ReorderApplied.WithLabelValues(kind).Add(float64(result.Applied))
	return result, nil
}
