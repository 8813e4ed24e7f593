package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
)

// StudentService is the interface that wraps methods for student operations
type StudentService interface {
	// Enroll enrolls a student in a course
	//
	// "ctx" is the context for the request.
	// "studentID" is the ID of the student.
	// "courseID" is the ID of the course.
	//
	// Returns an error if any.
	Enroll(ctx context.Context, studentID, courseID int) error
	// GetEnrolledCourses retrieves the courses a student is enrolled in
	//
	// "ctx" is the context for the request.
	// "studentID" is the ID of the student.
	//
	// Returns a list of courses and an error if any.
	GetEnrolledCourses(ctx context.Context, studentID int) ([]models.CourseListItem, error)
	// GetStudentCourse retrieves an enrolled course with its ordered modules
	//
	// "ctx" is the context for the request.
	// "studentID" is the ID of the student.
	// "courseID" is the ID of the course.
	//
	// Returns the course with its modules and an error if any.
	GetStudentCourse(ctx context.Context, studentID, courseID int) (*models.CourseDetailResponse, error)
	// GetStudentModuleContents retrieves the resolved contents of a module of an enrolled course
	//
	// "ctx" is the context for the request.
	// "studentID" is the ID of the student.
	// "moduleID" is the ID of the module.
	//
	// Returns the module, its contents and an error if any.
	GetStudentModuleContents(ctx context.Context, studentID, moduleID int) (*models.Module, []models.ContentResponse, error)
}

// StudentHandler handles HTTP requests for students
type StudentHandler struct {
	BaseHandler
	service StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(svc StudentService, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all student handler routes
func (h *StudentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/students", func(r chi.Router) {
		r.Get("/courses", h.GetEnrolledCourses)
		r.Post("/courses/{id}/enroll", h.Enroll)
		r.Get("/courses/{id}", h.GetCourse)
		r.Get("/modules/{id}/contents", h.GetModuleContents)
	})
}

// Enroll handles POST /students/courses/{id}/enroll
// @Summary Enroll in a course
// @Description Enroll the authenticated student in a course. Enrolling twice succeeds.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid course ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /students/courses/{id}/enroll [post]
func (h *StudentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.userID(w, r)
	if !ok {
		return
	}
	courseID, ok := h.pathID(w, r, "course")
	if !ok {
		return
	}

	if err := h.service.Enroll(r.Context(), studentID, courseID); err != nil {
		h.RespondServiceError(w, err, "enroll student")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetEnrolledCourses handles GET /students/courses
// @Summary List enrolled courses
// @Description List the courses the authenticated student is enrolled in
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CourseListItem "List of courses"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /students/courses [get]
func (h *StudentHandler) GetEnrolledCourses(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.userID(w, r)
	if !ok {
		return
	}

	courses, err := h.service.GetEnrolledCourses(r.Context(), studentID)
	if err != nil {
		h.RespondServiceError(w, err, "get enrolled courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /students/courses/{id}
// @Summary Get enrolled course
// @Description Get an enrolled course with its modules in position order
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} models.CourseDetailResponse "Course with modules"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not enrolled"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /students/courses/{id} [get]
func (h *StudentHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.userID(w, r)
	if !ok {
		return
	}
	courseID, ok := h.pathID(w, r, "course")
	if !ok {
		return
	}

	course, err := h.service.GetStudentCourse(r.Context(), studentID, courseID)
	if err != nil {
		h.RespondServiceError(w, err, "get student course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// GetModuleContents handles GET /students/modules/{id}/contents
// @Summary Get module contents
// @Description Get the contents of a module of an enrolled course in position order
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Success 200 {object} map[string]any "Module and contents"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not enrolled"
// @Failure 404 {object} map[string]string "Module not found"
// @Router /students/modules/{id}/contents [get]
func (h *StudentHandler) GetModuleContents(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.userID(w, r)
	if !ok {
		return
	}
	moduleID, ok := h.pathID(w, r, "module")
	if !ok {
		return
	}

	module, contents, err := h.service.GetStudentModuleContents(r.Context(), studentID, moduleID)
	if err != nil {
		h.RespondServiceError(w, err, "get module contents")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"module":   module,
		"contents": contents,
	})
}
