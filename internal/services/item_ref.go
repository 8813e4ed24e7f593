package services

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/kydzoster/e-learning-dj-linux/internal/metrics"
	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
)

// ItemRepository defines methods for item data access
type ItemRepository interface {
	// Create inserts an item into the table of its kind
	//
	// "ctx" is the context for the request.
	// "item" is the item to create; its ID and timestamps are set on success.
	//
	// Returns an error if any.
	Create(ctx context.Context, item models.Item) error
	// GetByRef loads the item a (kind, id) reference points to
	//
	// "ctx" is the context for the request.
	// "kind" is the kind tag of the item.
	// "id" is the ID of the item inside its kind.
	//
	// Returns the item and an error if any (ErrNotFound for a missing row, ErrInvalidKind for an unknown kind).
	GetByRef(ctx context.Context, kind models.ItemKind, id int) (models.Item, error)
	// Update saves the title and payload of an item
	//
	// "ctx" is the context for the request.
	// "item" is the item to update.
	//
	// Returns an error if any.
	Update(ctx context.Context, item models.Item) error
	// Delete deletes the item a (kind, id) reference points to
	//
	// "ctx" is the context for the request.
	// "kind" is the kind tag of the item.
	// "id" is the ID of the item inside its kind.
	//
	// Returns an error if any.
	Delete(ctx context.Context, kind models.ItemKind, id int) error
}

// ContentRepository defines methods for content data access
type ContentRepository interface {
	// IterByModule lazily lists the contents of a module in position order
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	//
	// Returns a restartable sequence of contents paired with iteration errors.
	IterByModule(ctx context.Context, moduleID int) iter.Seq2[models.Content, error]
	// GetByModule retrieves the contents of a module in position order
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	//
	// Returns a list of contents and an error if any.
	GetByModule(ctx context.Context, moduleID int) ([]models.Content, error)
	// GetByCourse retrieves the contents of every module of a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns a list of contents and an error if any.
	GetByCourse(ctx context.Context, courseID int) ([]models.Content, error)
	// GetByID retrieves a content by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the content.
	//
	// Returns the content and an error if any.
	GetByID(ctx context.Context, id int) (*models.Content, error)
	// Create binds an item reference to a module
	//
	// "ctx" is the context for the request.
	// "content" is the content to create.
	// "position" is the explicit position or nil to append after the last content.
	//
	// Returns an error if any.
	Create(ctx context.Context, content *models.Content, position *int) error
	// Delete deletes a content
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the content.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id int) error
	// UpdatePositionOwned sets the position of a content owned by ownerID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the content.
	// "position" is the new position.
	// "ownerID" is the ID of the acting instructor.
	//
	// Returns whether a row was updated and an error if any.
	UpdatePositionOwned(ctx context.Context, id, position, ownerID int) (bool, error)
	// CheckOwnership checks if a content belongs to a course owned by ownerID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the content.
	// "ownerID" is the ID of the instructor.
	//
	// Returns a boolean and an error if any.
	CheckOwnership(ctx context.Context, id, ownerID int) (bool, error)
	// GetDangling retrieves contents whose item no longer exists
	//
	// "ctx" is the context for the request.
	//
	// Returns a list of contents and an error if any.
	GetDangling(ctx context.Context) ([]models.Content, error)
}

// MediaCleaner schedules removal of files kept in media storage
type MediaCleaner interface {
	// EnqueueMediaDelete schedules deletion of the stored file behind an item
	//
	// "ctx" is the context for the request.
	// "kind" is the kind of the item (file or image).
	// "fileRef" is the stored file reference.
	//
	// Returns an error if any.
	EnqueueMediaDelete(ctx context.Context, kind models.ItemKind, fileRef string) error
}

type itemRefService struct {
	itemRepo    ItemRepository
	contentRepo ContentRepository
	media       MediaCleaner
	metrics     *metrics.Collector
	logger      *zap.Logger
}

// NewItemRefService creates a service binding module contents to items of any kind
func NewItemRefService(
	itemRepo ItemRepository,
	contentRepo ContentRepository,
	media MediaCleaner,
	m *metrics.Collector,
	logger *zap.Logger,
) *itemRefService {
	return &itemRefService{
		itemRepo:    itemRepo,
		contentRepo: contentRepo,
		media:       media,
		metrics:     m,
		logger:      logger,
	}
}

// Bind creates a content row in a module pointing at an already persisted item.
// The position is appended after the last content of the module.
func (s *itemRefService) Bind(ctx context.Context, moduleID int, item models.Item) (*models.Content, error) {
	if item.Base().ID == 0 {
		return nil, fmt.Errorf("%w: item must be saved before it is bound", models.ErrValidation)
	}
	kind, err := models.ParseItemKind(string(item.Kind()))
	if err != nil {
		return nil, err
	}

	content := &models.Content{
		ModuleID: moduleID,
		Kind:     kind,
		ItemID:   item.Base().ID,
	}
	if err := s.contentRepo.Create(ctx, content, nil); err != nil {
		return nil, err
	}

	return content, nil
}

// Resolve loads the item a content row points to.
// A reference to a missing item yields ErrNotFound.
func (s *itemRefService) Resolve(ctx context.Context, content *models.Content) (models.Item, error) {
	kind, err := models.ParseItemKind(string(content.Kind))
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByRef(ctx, kind, content.ItemID)
	if errors.Is(err, models.ErrNotFound) {
		s.metrics.DanglingContents.WithLabelValues("resolve").Inc()
		s.logger.Warn("content points to a missing item",
			zap.Int("content_id", content.ID),
			zap.String("kind", string(kind)),
			zap.Int("item_id", content.ItemID),
		)
	}
	return item, err
}

// DeleteItem deletes an item and schedules cleanup of its stored file.
// An item that is already gone is not an error.
func (s *itemRefService) DeleteItem(ctx context.Context, kind models.ItemKind, id int) error {
	item, err := s.itemRepo.GetByRef(ctx, kind, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, kind, id); err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}

	if kind.HasStoredFile() && item.Payload() != "" {
		if err := s.media.EnqueueMediaDelete(ctx, kind, item.Payload()); err != nil {
			s.logger.Warn("failed to schedule media cleanup",
				zap.String("kind", string(kind)),
				zap.String("file", item.Payload()),
				zap.Error(err),
			)
		}
	}

	return nil
}

// DeleteModuleItems deletes the items referenced by every content of a module.
// It must run before the module row is deleted; the content rows go with the module's cascade.
func (s *itemRefService) DeleteModuleItems(ctx context.Context, moduleID int) error {
	contents, err := s.contentRepo.GetByModule(ctx, moduleID)
	if err != nil {
		return err
	}
	return s.deleteItemsOf(ctx, contents)
}

// DeleteCourseItems deletes the items referenced by every content of every module of a course
func (s *itemRefService) DeleteCourseItems(ctx context.Context, courseID int) error {
	contents, err := s.contentRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return err
	}
	return s.deleteItemsOf(ctx, contents)
}

func (s *itemRefService) deleteItemsOf(ctx context.Context, contents []models.Content) error {
	for _, content := range contents {
		if err := s.DeleteItem(ctx, content.Kind, content.ItemID); err != nil {
			if errors.Is(err, models.ErrInvalidKind) {
				s.logger.Warn("skipping content with unknown kind", zap.Int("content_id", content.ID), zap.String("kind", string(content.Kind)))
				continue
			}
			return fmt.Errorf("failed to delete item of content %d: %w", content.ID, err)
		}
	}
	return nil
}
