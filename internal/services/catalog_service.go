package services

import (
	"context"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SubjectRepository defines methods for subject data access
type SubjectRepository interface {
	SubjectLookup
	// GetAll retrieves every subject with its course count
	//
	// "ctx" is the context for the request.
	//
	// Returns a list of subjects and an error if any.
	GetAll(ctx context.Context) ([]models.SubjectListItem, error)
	// GetBySlug retrieves a subject by slug
	//
	// "ctx" is the context for the request.
	// "slug" is the slug of the subject.
	//
	// Returns the subject and an error if any.
	GetBySlug(ctx context.Context, slug string) (*models.Subject, error)
	// ExistsBySlug checks if another subject already uses the slug
	//
	// "ctx" is the context for the request.
	// "slug" is the slug to check.
	// "excludeID" is the ID of a subject to ignore (0 for none).
	//
	// Returns a boolean and an error if any.
	ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error)
	// Create creates a new subject
	//
	// "ctx" is the context for the request.
	// "subject" is the subject to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, subject *models.Subject) error
	// Update updates a subject (partial update)
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the subject.
	// "req" holds the fields to change.
	//
	// Returns an error if any.
	Update(ctx context.Context, id int, req *models.UpdateSubjectRequest) error
}

// EnrollmentRepository defines methods for enrollment data access
type EnrollmentRepository interface {
	// IsEnrolled checks if a student is enrolled in a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "studentID" is the ID of the student.
	//
	// Returns a boolean and an error if any.
	IsEnrolled(ctx context.Context, courseID, studentID int) (bool, error)
	// Create enrolls a student in a course
	//
	// "ctx" is the context for the request.
	// "enrollment" is the enrollment to create.
	//
	// Returns an error if any.
	Create(ctx context.Context, enrollment *models.Enrollment) error
}

// CatalogCache caches the public listings
type CatalogCache interface {
	CatalogInvalidator
	// Subjects returns the subject listing, calling load on a miss
	Subjects(ctx context.Context, load func(context.Context) ([]models.SubjectListItem, error)) ([]models.SubjectListItem, error)
	// Courses returns the course listing of a subject (all subjects when empty), calling load on a miss
	Courses(ctx context.Context, subjectSlug string, load func(context.Context) ([]models.CourseListItem, error)) ([]models.CourseListItem, error)
}

// ContentLoader loads the resolved contents of a module
type ContentLoader interface {
	// ListResolved retrieves the contents of a module in position order together with their items
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	//
	// Returns a list of contents and an error if any.
	ListResolved(ctx context.Context, moduleID int) ([]models.ContentResponse, error)
}

type catalogService struct {
	subjectRepo    SubjectRepository
	courseRepo     CourseRepository
	moduleRepo     ModuleRepository
	enrollmentRepo EnrollmentRepository
	contents       ContentLoader
	cache          CatalogCache
	logger         *zap.Logger
}

// NewCatalogService creates a service for public browsing and student access
func NewCatalogService(
	subjectRepo SubjectRepository,
	courseRepo CourseRepository,
	moduleRepo ModuleRepository,
	enrollmentRepo EnrollmentRepository,
	contents ContentLoader,
	cache CatalogCache,
	logger *zap.Logger,
) *catalogService {
	return &catalogService{
		subjectRepo:    subjectRepo,
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		enrollmentRepo: enrollmentRepo,
		contents:       contents,
		cache:          cache,
		logger:         logger,
	}
}

// GetSubjects retrieves every subject with its course count
func (s *catalogService) GetSubjects(ctx context.Context) ([]models.SubjectListItem, error) {
	subjects, err := s.cache.Subjects(ctx, s.subjectRepo.GetAll)
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []models.SubjectListItem{}
	}
	return subjects, nil
}

// GetCourses retrieves courses newest first, optionally of one subject.
// An unknown subject slug yields ErrNotFound.
func (s *catalogService) GetCourses(ctx context.Context, subjectSlug string) ([]models.CourseListItem, error) {
	if subjectSlug != "" {
		if _, err := s.subjectRepo.GetBySlug(ctx, subjectSlug); err != nil {
			return nil, err
		}
	}

	courses, err := s.cache.Courses(ctx, subjectSlug, func(ctx context.Context) ([]models.CourseListItem, error) {
		return s.courseRepo.GetList(ctx, subjectSlug)
	})
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []models.CourseListItem{}
	}
	return courses, nil
}

// GetCourseDetail retrieves a course by slug with its ordered modules
func (s *catalogService) GetCourseDetail(ctx context.Context, slug string) (*models.CourseDetailResponse, error) {
	course, err := s.courseRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	modules, err := s.moduleRepo.GetByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	if modules == nil {
		modules = []models.Module{}
	}

	return &models.CourseDetailResponse{Course: *course, Modules: modules}, nil
}

// Enroll enrolls a student in a course. Enrolling twice is not an error.
func (s *catalogService) Enroll(ctx context.Context, studentID, courseID int) error {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return err
	}
	if enrolled {
		return nil
	}

	if err := s.enrollmentRepo.Create(ctx, &models.Enrollment{CourseID: courseID, StudentID: studentID}); err != nil {
		return err
	}

	s.logger.Info("student enrolled", zap.Int("course_id", courseID), zap.Int("student_id", studentID))
	return nil
}

// GetEnrolledCourses retrieves the courses a student is enrolled in
func (s *catalogService) GetEnrolledCourses(ctx context.Context, studentID int) ([]models.CourseListItem, error) {
	courses, err := s.courseRepo.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []models.CourseListItem{}
	}
	return courses, nil
}

// GetStudentCourse retrieves an enrolled course with its ordered modules
func (s *catalogService) GetStudentCourse(ctx context.Context, studentID, courseID int) (*models.CourseDetailResponse, error) {
	var (
		course   *models.Course
		modules  []models.Module
		enrolled bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		course, err = s.courseRepo.GetByID(gctx, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		enrolled, err = s.enrollmentRepo.IsEnrolled(gctx, courseID, studentID)
		return err
	})
	g.Go(func() error {
		var err error
		modules, err = s.moduleRepo.GetByCourse(gctx, courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !enrolled {
		return nil, models.ErrForbidden
	}
	if modules == nil {
		modules = []models.Module{}
	}

	return &models.CourseDetailResponse{Course: *course, Modules: modules}, nil
}

// GetStudentModuleContents retrieves the resolved contents of a module of an enrolled course
func (s *catalogService) GetStudentModuleContents(ctx context.Context, studentID, moduleID int) (*models.Module, []models.ContentResponse, error) {
	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, nil, err
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, module.CourseID, studentID)
	if err != nil {
		return nil, nil, err
	}
	if !enrolled {
		return nil, nil, models.ErrForbidden
	}

	contents, err := s.contents.ListResolved(ctx, moduleID)
	if err != nil {
		return nil, nil, err
	}

	return module, contents, nil
}
