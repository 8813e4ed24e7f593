package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
)

// CatalogService is the interface that wraps methods for public catalog browsing
type CatalogService interface {
	// GetSubjects retrieves every subject with its course count
	//
	// "ctx" is the context for the request.
	//
	// Returns a list of subjects and an error if any.
	GetSubjects(ctx context.Context) ([]models.SubjectListItem, error)
	// GetCourses retrieves courses newest first
	//
	// "ctx" is the context for the request.
	// "subjectSlug" limits the list to one subject when not empty.
	//
	// Returns a list of courses and an error if any.
	GetCourses(ctx context.Context, subjectSlug string) ([]models.CourseListItem, error)
	// GetCourseDetail retrieves a course by slug with its ordered modules
	//
	// "ctx" is the context for the request.
	// "slug" is the slug of the course.
	//
	// Returns the course with its modules and an error if any.
	GetCourseDetail(ctx context.Context, slug string) (*models.CourseDetailResponse, error)
}

// CatalogHandler handles HTTP requests for the public catalog
type CatalogHandler struct {
	BaseHandler
	service CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(svc CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all catalog handler routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/subjects", h.GetSubjects)
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.GetCourses)
		r.Get("/subject/{subject}", h.GetCourses)
		r.Get("/{slug}", h.GetCourseDetail)
	})
}

// GetSubjects handles GET /subjects
// @Summary List subjects
// @Description List every subject ordered by title with the number of courses in it
// @Tags catalog
// @Produce json
// @Success 200 {array} models.SubjectListItem "List of subjects"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /subjects [get]
func (h *CatalogHandler) GetSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.service.GetSubjects(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "get subjects")
		return
	}

	h.RespondJSON(w, http.StatusOK, subjects)
}

// GetCourses handles GET /courses and GET /courses/subject/{subject}
// @Summary List courses
// @Description List courses newest first, optionally limited to one subject
// @Tags catalog
// @Produce json
// @Param subject path string false "Subject slug"
// @Success 200 {array} models.CourseListItem "List of courses"
// @Failure 404 {object} map[string]string "Subject not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses [get]
// @Router /courses/subject/{subject} [get]
func (h *CatalogHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	if subject == "" {
		subject = r.URL.Query().Get("subject")
	}

	courses, err := h.service.GetCourses(r.Context(), subject)
	if err != nil {
		h.RespondServiceError(w, err, "get courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// GetCourseDetail handles GET /courses/{slug}
// @Summary Get course
// @Description Get a course by slug with its modules in position order
// @Tags catalog
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} models.CourseDetailResponse "Course with modules"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{slug} [get]
func (h *CatalogHandler) GetCourseDetail(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.GetCourseDetail(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.RespondServiceError(w, err, "get course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}
