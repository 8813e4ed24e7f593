package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
)

type contentService struct {
	moduleRepo  ModuleRepository
	courseRepo  CourseRepository
	contentRepo ContentRepository
	itemRepo    ItemRepository
	refs        *itemRefService
	logger      *zap.Logger
}

// NewContentService creates a service managing module contents and their items
func NewContentService(
	moduleRepo ModuleRepository,
	courseRepo CourseRepository,
	contentRepo ContentRepository,
	itemRepo ItemRepository,
	refs *itemRefService,
	logger *zap.Logger,
) *contentService {
	return &contentService{
		moduleRepo:  moduleRepo,
		courseRepo:  courseRepo,
		contentRepo: contentRepo,
		itemRepo:    itemRepo,
		refs:        refs,
		logger:      logger,
	}
}

// CreateItemAndBind creates an item of the given kind and appends it to a module.
// If binding fails the new item is removed again.
//
// Returns the ID of the new content row.
func (s *contentService) CreateItemAndBind(ctx context.Context, ownerID, moduleID int, kindName string, req *models.ItemRequest) (int, error) {
	kind, err := models.ParseItemKind(kindName)
	if err != nil {
		return 0, err
	}

	// Prepare for concurrent check
	errorChan := make(chan error, 3)

	// Validate field constraints
	go func() {
		errorChan <- models.Validate(req)
	}()
	// Check required attributes of the kind
	go func() {
		if req.Title == "" {
			errorChan <- fmt.Errorf("%w: title is required", models.ErrValidation)
			return
		}
		if req.PayloadFor(kind) == "" {
			errorChan <- fmt.Errorf("%w: %s is required for %s items", models.ErrValidation, payloadField(kind), kind)
			return
		}
		errorChan <- nil
	}()
	// Check module exists and belongs to the instructor
	go func() {
		_, err := s.ownedModule(ctx, moduleID, ownerID)
		errorChan <- err
	}()

	for range 3 {
		if err := <-errorChan; err != nil {
			return 0, err
		}
	}

	item, err := models.NewItem(kind)
	if err != nil {
		return 0, err
	}
	item.Base().OwnerID = ownerID
	item.Base().Title = req.Title
	item.SetPayload(req.PayloadFor(kind))

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return 0, err
	}

	content, err := s.refs.Bind(ctx, moduleID, item)
	if err != nil {
		if delErr := s.itemRepo.Delete(ctx, kind, item.Base().ID); delErr != nil {
			s.logger.Error("failed to remove unbound item",
				zap.String("kind", string(kind)),
				zap.Int("item_id", item.Base().ID),
				zap.Error(delErr),
			)
		}
		return 0, err
	}

	s.logger.Info("content created",
		zap.Int("content_id", content.ID),
		zap.Int("module_id", moduleID),
		zap.String("kind", string(kind)),
		zap.Int("position", content.Position),
	)
	return content.ID, nil
}

// UpdateItem updates the title and payload of the item behind a content (partial update).
// Owner and creation time never change.
func (s *contentService) UpdateItem(ctx context.Context, ownerID, contentID int, req *models.ItemRequest) (models.Item, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	content, err := s.ownedContent(ctx, contentID, ownerID)
	if err != nil {
		return nil, err
	}

	item, err := s.refs.Resolve(ctx, content)
	if err != nil {
		return nil, err
	}

	oldPayload := item.Payload()
	newPayload := req.PayloadFor(item.Kind())
	if req.Title == "" && newPayload == "" {
		return nil, fmt.Errorf("%w: at least one field must be provided", models.ErrValidation)
	}
	if req.Title != "" {
		item.Base().Title = req.Title
	}
	if newPayload != "" {
		item.SetPayload(newPayload)
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	// Replaced files are no longer referenced
	if item.Kind().HasStoredFile() && oldPayload != "" && newPayload != "" && oldPayload != newPayload {
		if err := s.refs.media.EnqueueMediaDelete(ctx, item.Kind(), oldPayload); err != nil {
			s.logger.Warn("failed to schedule media cleanup", zap.String("file", oldPayload), zap.Error(err))
		}
	}

	return item, nil
}

// DeleteContent deletes the item behind a content, then the content row itself
func (s *contentService) DeleteContent(ctx context.Context, ownerID, contentID int) error {
	content, err := s.ownedContent(ctx, contentID, ownerID)
	if err != nil {
		return err
	}

	if err := s.refs.DeleteItem(ctx, content.Kind, content.ItemID); err != nil {
		return err
	}

	// The row may already be gone when a sweep picked it up after the item was deleted
	if err := s.contentRepo.Delete(ctx, content.ID); err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	return nil
}

// GetModuleContents retrieves the resolved contents of a module owned by the instructor
func (s *contentService) GetModuleContents(ctx context.Context, ownerID, moduleID int) (*models.Module, []models.ContentResponse, error) {
	module, err := s.ownedModule(ctx, moduleID, ownerID)
	if err != nil {
		return nil, nil, err
	}

	contents, err := s.ListResolved(ctx, moduleID)
	if err != nil {
		return nil, nil, err
	}

	return module, contents, nil
}

// ListResolved retrieves the contents of a module in position order together with their items.
// Contents pointing at missing items are left out.
func (s *contentService) ListResolved(ctx context.Context, moduleID int) ([]models.ContentResponse, error) {
	contents, err := s.contentRepo.GetByModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	result := make([]models.ContentResponse, 0, len(contents))
	for i := range contents {
		item, err := s.refs.Resolve(ctx, &contents[i])
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidKind) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, models.ContentResponse{
			ID:       contents[i].ID,
			Kind:     contents[i].Kind,
			Position: contents[i].Position,
			Item:     item,
		})
	}

	return result, nil
}

// Resolve loads the item behind a content
func (s *contentService) Resolve(ctx context.Context, contentID int) (models.Item, error) {
	content, err := s.contentRepo.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	return s.refs.Resolve(ctx, content)
}

// ownedModule loads a module and checks its course belongs to ownerID
func (s *contentService) ownedModule(ctx context.Context, moduleID, ownerID int) (*models.Module, error) {
	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	owned, err := s.courseRepo.CheckOwnership(ctx, module.CourseID, ownerID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, models.ErrForbidden
	}

	return module, nil
}

// ownedContent loads a content and checks its course belongs to ownerID
func (s *contentService) ownedContent(ctx context.Context, contentID, ownerID int) (*models.Content, error) {
	content, err := s.contentRepo.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	owned, err := s.contentRepo.CheckOwnership(ctx, contentID, ownerID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, models.ErrForbidden
	}

	return content, nil
}

func payloadField(kind models.ItemKind) string {
	switch kind {
	case models.ItemKindText:
		return "content"
	case models.ItemKindVideo:
		return "url"
	}
	return "file"
}
