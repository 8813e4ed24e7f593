package services

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
)

// CourseRepository defines methods for course data access
type CourseRepository interface {
	// GetList retrieves courses newest first
	//
	// "ctx" is the context for the request.
	// "subjectSlug" limits the list to one subject when not empty.
	//
	// Returns a list of courses and an error if any.
	GetList(ctx context.Context, subjectSlug string) ([]models.CourseListItem, error)
	// GetByOwner retrieves the courses of an instructor
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	//
	// Returns a list of courses and an error if any.
	GetByOwner(ctx context.Context, ownerID int) ([]models.CourseListItem, error)
	// GetByStudent retrieves the courses a student is enrolled in
	//
	// "ctx" is the context for the request.
	// "studentID" is the ID of the student.
	//
	// Returns a list of courses and an error if any.
	GetByStudent(ctx context.Context, studentID int) ([]models.CourseListItem, error)
	// GetByID retrieves a course by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns the course and an error if any.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// GetBySlug retrieves a course by slug
	//
	// "ctx" is the context for the request.
	// "slug" is the slug of the course.
	//
	// Returns the course and an error if any.
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	// ExistsBySlug checks if another course already uses the slug
	//
	// "ctx" is the context for the request.
	// "slug" is the slug to check.
	// "excludeID" is the ID of a course to ignore (0 for none).
	//
	// Returns a boolean and an error if any.
	ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error)
	// Create creates a new course
	//
	// "ctx" is the context for the request.
	// "course" is the course to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, course *models.Course) error
	// Update updates a course (partial update)
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	// "req" holds the fields to change.
	//
	// Returns an error if any.
	Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error
	// Delete deletes a course together with its modules and contents
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id int) error
	// CheckOwnership checks if a course belongs to an instructor
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	// "ownerID" is the ID of the instructor.
	//
	// Returns a boolean and an error if any.
	CheckOwnership(ctx context.Context, id, ownerID int) (bool, error)
}

// ModuleRepository defines methods for module data access
type ModuleRepository interface {
	// IterByCourse lazily lists the modules of a course in position order
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns a restartable sequence of modules paired with iteration errors.
	IterByCourse(ctx context.Context, courseID int) iter.Seq2[models.Module, error]
	// GetByCourse retrieves the modules of a course in position order
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns a list of modules and an error if any.
	GetByCourse(ctx context.Context, courseID int) ([]models.Module, error)
	// GetByID retrieves a module by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the module.
	//
	// Returns the module and an error if any.
	GetByID(ctx context.Context, id int) (*models.Module, error)
	// Create creates a new module
	//
	// "ctx" is the context for the request.
	// "module" is the module to create.
	// "position" is the explicit position or nil to append after the last module.
	//
	// Returns an error if any.
	Create(ctx context.Context, module *models.Module, position *int) error
	// Update updates a module (partial update)
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the module.
	// "req" holds the fields to change.
	//
	// Returns an error if any.
	Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error
	// Delete deletes a module together with its contents
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the module.
	//
	// Returns an error if any.
	Delete(ctx context.Context, id int) error
	// UpdatePositionOwned sets the position of a module owned by ownerID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the module.
	// "position" is the new position.
	// "ownerID" is the ID of the acting instructor.
	//
	// Returns whether a row was updated and an error if any.
	UpdatePositionOwned(ctx context.Context, id, position, ownerID int) (bool, error)
}

// SubjectLookup defines the subject reads needed by course management
type SubjectLookup interface {
	// GetByID retrieves a subject by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the subject.
	//
	// Returns the subject and an error if any.
	GetByID(ctx context.Context, id int) (*models.Subject, error)
}

// CatalogInvalidator drops cached catalog listings after a change
type CatalogInvalidator interface {
	// InvalidateCourses drops cached listings affected by a course change in a subject
	InvalidateCourses(ctx context.Context, subjectSlug string) error
	// InvalidateSubjects drops the cached subject listing
	InvalidateSubjects(ctx context.Context) error
}

type courseService struct {
	courseRepo  CourseRepository
	moduleRepo  ModuleRepository
	contentRepo ContentRepository
	subjectRepo SubjectLookup
	refs        *itemRefService
	cache       CatalogInvalidator
	logger      *zap.Logger
}

// NewCourseService creates a service for instructors managing their courses and modules
func NewCourseService(
	courseRepo CourseRepository,
	moduleRepo ModuleRepository,
	contentRepo ContentRepository,
	subjectRepo SubjectLookup,
	refs *itemRefService,
	cache CatalogInvalidator,
	logger *zap.Logger,
) *courseService {
	return &courseService{
		courseRepo:  courseRepo,
		moduleRepo:  moduleRepo,
		contentRepo: contentRepo,
		subjectRepo: subjectRepo,
		refs:        refs,
		cache:       cache,
		logger:      logger,
	}
}

// GetOwnedCourses retrieves the courses of an instructor
func (s *courseService) GetOwnedCourses(ctx context.Context, ownerID int) ([]models.CourseListItem, error) {
	return s.courseRepo.GetByOwner(ctx, ownerID)
}

// CreateCourse creates a new course owned by req.OwnerID
func (s *courseService) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (int, error) {
	if err := models.Validate(req); err != nil {
		return 0, err
	}

	var subject *models.Subject

	// Prepare for concurrent check
	errorChan := make(chan error, 2)

	// Check subject exists
	go func() {
		found, err := s.subjectRepo.GetByID(ctx, req.SubjectID)
		if err != nil {
			errorChan <- err
			return
		}
		subject = found
		errorChan <- nil
	}()
	// Check slug uniqueness
	go func() {
		exists, err := s.courseRepo.ExistsBySlug(ctx, req.Slug, 0)
		if err != nil {
			errorChan <- err
			return
		}
		if exists {
			errorChan <- fmt.Errorf("course with slug '%s' %w", req.Slug, models.ErrConflict)
			return
		}
		errorChan <- nil
	}()

	var firstErr error
	for range 2 {
		if err := <-errorChan; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return 0, firstErr
	}

	course := &models.Course{
		OwnerID:   req.OwnerID,
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Slug:      req.Slug,
		Overview:  req.Overview,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return 0, err
	}

	s.invalidateCourses(ctx, subject.Slug)
	return course.ID, nil
}

// UpdateCourse updates a course owned by the instructor (partial update)
func (s *courseService) UpdateCourse(ctx context.Context, ownerID, courseID int, req *models.UpdateCourseRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}
	if req.SubjectID == nil && req.Title == "" && req.Slug == "" && req.Overview == "" {
		return fmt.Errorf("%w: at least one field must be provided", models.ErrValidation)
	}

	course, err := s.ownedCourse(ctx, courseID, ownerID)
	if err != nil {
		return err
	}

	affected := []int{course.SubjectID}

	// Prepare for concurrent check
	errorChan := make(chan error, 2)

	// Check slug uniqueness if changed
	go func() {
		if req.Slug != "" && req.Slug != course.Slug {
			exists, err := s.courseRepo.ExistsBySlug(ctx, req.Slug, courseID)
			if err != nil {
				errorChan <- err
				return
			}
			if exists {
				errorChan <- fmt.Errorf("course with slug '%s' %w", req.Slug, models.ErrConflict)
				return
			}
		}
		errorChan <- nil
	}()
	// Check new subject exists if changed
	go func() {
		if req.SubjectID != nil && *req.SubjectID != course.SubjectID {
			if _, err := s.subjectRepo.GetByID(ctx, *req.SubjectID); err != nil {
				errorChan <- err
				return
			}
		}
		errorChan <- nil
	}()

	var firstErr error
	for range 2 {
		if err := <-errorChan; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return firstErr
	}

	if err := s.courseRepo.Update(ctx, courseID, req); err != nil {
		return err
	}

	if req.SubjectID != nil && *req.SubjectID != course.SubjectID {
		affected = append(affected, *req.SubjectID)
	}
	for _, subjectID := range affected {
		s.invalidateCoursesOfSubject(ctx, subjectID)
	}
	return nil
}

// DeleteCourse deletes a course owned by the instructor together with every item its contents reference
func (s *courseService) DeleteCourse(ctx context.Context, ownerID, courseID int) error {
	course, err := s.ownedCourse(ctx, courseID, ownerID)
	if err != nil {
		return err
	}

	if err := s.refs.DeleteCourseItems(ctx, courseID); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		return err
	}

	s.invalidateCoursesOfSubject(ctx, course.SubjectID)
	return nil
}

// GetCourseModules retrieves an owned course with its ordered modules
func (s *courseService) GetCourseModules(ctx context.Context, ownerID, courseID int) (*models.CourseDetailResponse, error) {
	course, err := s.ownedCourse(ctx, courseID, ownerID)
	if err != nil {
		return nil, err
	}

	modules, err := s.moduleRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if modules == nil {
		modules = []models.Module{}
	}

	return &models.CourseDetailResponse{Course: *course, Modules: modules}, nil
}

// CreateModule appends a module to an owned course.
// An explicit position in the request is stored as given.
func (s *courseService) CreateModule(ctx context.Context, ownerID, courseID int, req *models.CreateModuleRequest) (*models.Module, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.ownedCourse(ctx, courseID, ownerID)
	if err != nil {
		return nil, err
	}

	module := &models.Module{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.moduleRepo.Create(ctx, module, req.Position); err != nil {
		return nil, err
	}

	// Listings carry the module count
	s.invalidateCoursesOfSubject(ctx, course.SubjectID)
	return module, nil
}

// UpdateModule updates a module of an owned course (partial update)
func (s *courseService) UpdateModule(ctx context.Context, ownerID, moduleID int, req *models.UpdateModuleRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}

	if _, err := s.ownedModule(ctx, moduleID, ownerID); err != nil {
		return err
	}

	return s.moduleRepo.Update(ctx, moduleID, req)
}

// DeleteModule deletes a module of an owned course together with every item its contents reference
func (s *courseService) DeleteModule(ctx context.Context, ownerID, moduleID int) error {
	module, err := s.ownedModule(ctx, moduleID, ownerID)
	if err != nil {
		return err
	}

	if err := s.refs.DeleteModuleItems(ctx, moduleID); err != nil {
		return err
	}

	if err := s.moduleRepo.Delete(ctx, moduleID); err != nil {
		return err
	}

	if course, err := s.courseRepo.GetByID(ctx, module.CourseID); err == nil {
		s.invalidateCoursesOfSubject(ctx, course.SubjectID)
	} else {
		s.invalidateCourses(ctx, "")
	}
	return nil
}

// ListChildren lists the direct children of a course (modules) or a module (contents)
// in position order. The parent must exist; the returned sequence re-reads current
// state every time it is ranged over.
func (s *courseService) ListChildren(ctx context.Context, parentKind models.ParentKind, parentID int) (iter.Seq2[models.OrderedChild, error], error) {
	switch parentKind {
	case models.ParentKindCourse:
		if _, err := s.courseRepo.GetByID(ctx, parentID); err != nil {
			return nil, err
		}
		return asChildren(s.moduleRepo.IterByCourse(ctx, parentID)), nil
	case models.ParentKindModule:
		if _, err := s.moduleRepo.GetByID(ctx, parentID); err != nil {
			return nil, err
		}
		return asChildren(s.contentRepo.IterByModule(ctx, parentID)), nil
	}
	return nil, fmt.Errorf("%w: unknown parent kind %q", models.ErrValidation, parentKind)
}

// ListOwnedChildren is ListChildren restricted to parents owned by the instructor
func (s *courseService) ListOwnedChildren(ctx context.Context, ownerID int, parentKind models.ParentKind, parentID int) (iter.Seq2[models.OrderedChild, error], error) {
	var err error
	switch parentKind {
	case models.ParentKindCourse:
		_, err = s.ownedCourse(ctx, parentID, ownerID)
	case models.ParentKindModule:
		_, err = s.ownedModule(ctx, parentID, ownerID)
	default:
		err = fmt.Errorf("%w: unknown parent kind %q", models.ErrValidation, parentKind)
	}
	if err != nil {
		return nil, err
	}
	return s.ListChildren(ctx, parentKind, parentID)
}

func asChildren[T models.OrderedChild](seq iter.Seq2[T, error]) iter.Seq2[models.OrderedChild, error] {
	return func(yield func(models.OrderedChild, error) bool) {
		for child, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(child, nil) {
				return
			}
		}
	}
}

func (s *courseService) ownedCourse(ctx context.Context, courseID, ownerID int) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.OwnerID != ownerID {
		return nil, models.ErrForbidden
	}
	return course, nil
}

func (s *courseService) ownedModule(ctx context.Context, moduleID, ownerID int) (*models.Module, error) {
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

func (s *courseService) invalidateCoursesOfSubject(ctx context.Context, subjectID int) {
	subject, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("failed to load subject for cache invalidation", zap.Int("subject_id", subjectID), zap.Error(err))
		}
		s.invalidateCourses(ctx, "")
		return
	}
	s.invalidateCourses(ctx, subject.Slug)
}

func (s *courseService) invalidateCourses(ctx context.Context, subjectSlug string) {
	if err := s.cache.InvalidateCourses(ctx, subjectSlug); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.String("subject", subjectSlug), zap.Error(err))
	}
}
