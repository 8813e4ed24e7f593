package services

import (
	"context"
	"fmt"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
)

type subjectService struct {
	repo   SubjectRepository
	cache  CatalogInvalidator
	logger *zap.Logger
}

// NewSubjectService creates a service for administrators managing subjects
func NewSubjectService(repo SubjectRepository, cache CatalogInvalidator, logger *zap.Logger) *subjectService {
	return &subjectService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// CreateSubject creates a new subject
func (s *subjectService) CreateSubject(ctx context.Context, req *models.CreateSubjectRequest) (int, error) {
	if err := models.Validate(req); err != nil {
		return 0, err
	}

	exists, err := s.repo.ExistsBySlug(ctx, req.Slug, 0)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("subject with slug '%s' %w", req.Slug, models.ErrConflict)
	}

	subject := &models.Subject{Title: req.Title, Slug: req.Slug}
	if err := s.repo.Create(ctx, subject); err != nil {
		return 0, err
	}

	s.invalidate(ctx)
	return subject.ID, nil
}

// UpdateSubject updates a subject (partial update)
func (s *subjectService) UpdateSubject(ctx context.Context, id int, req *models.UpdateSubjectRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}
	if req.Title == "" && req.Slug == "" {
		return fmt.Errorf("%w: at least one field must be provided", models.ErrValidation)
	}

	subject, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if req.Slug != "" && req.Slug != subject.Slug {
		exists, err := s.repo.ExistsBySlug(ctx, req.Slug, id)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("subject with slug '%s' %w", req.Slug, models.ErrConflict)
		}
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *subjectService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateSubjects(ctx); err != nil {
		s.logger.Warn("failed to invalidate subject cache", zap.Error(err))
	}
}
