package handlers

import (
	"context"
	"iter"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kydzoster/e-learning-dj-linux/internal/middlewares"
	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
)

// CourseService is the interface that wraps methods for course and module management
type CourseService interface {
	// GetOwnedCourses retrieves the courses of an instructor
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	//
	// Returns a list of courses and an error if any.
	GetOwnedCourses(ctx context.Context, ownerID int) ([]models.CourseListItem, error)
	// CreateCourse creates a new course
	//
	// "ctx" is the context for the request.
	// "request" is the request body, OwnerID must be set.
	//
	// Returns the ID of the created course and an error if any.
	CreateCourse(ctx context.Context, request *models.CreateCourseRequest) (int, error)
	// UpdateCourse updates an owned course
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "courseID" is the ID of the course.
	// "request" is the request body.
	//
	// Returns an error if any.
	UpdateCourse(ctx context.Context, ownerID, courseID int, request *models.UpdateCourseRequest) error
	// DeleteCourse deletes an owned course with its modules, contents and items
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "courseID" is the ID of the course.
	//
	// Returns an error if any.
	DeleteCourse(ctx context.Context, ownerID, courseID int) error
	// GetCourseModules retrieves an owned course with its ordered modules
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "courseID" is the ID of the course.
	//
	// Returns the course with its modules and an error if any.
	GetCourseModules(ctx context.Context, ownerID, courseID int) (*models.CourseDetailResponse, error)
	// CreateModule appends a module to an owned course
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "courseID" is the ID of the course.
	// "request" is the request body.
	//
	// Returns the created module and an error if any.
	CreateModule(ctx context.Context, ownerID, courseID int, request *models.CreateModuleRequest) (*models.Module, error)
	// UpdateModule updates a module of an owned course
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "moduleID" is the ID of the module.
	// "request" is the request body.
	//
	// Returns an error if any.
	UpdateModule(ctx context.Context, ownerID, moduleID int, request *models.UpdateModuleRequest) error
	// DeleteModule deletes a module of an owned course with its contents and items
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "moduleID" is the ID of the module.
	//
	// Returns an error if any.
	DeleteModule(ctx context.Context, ownerID, moduleID int) error
	// ListOwnedChildren lists the ordered children of a course or a module owned by the instructor
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "parentKind" is the level of the parent.
	// "parentID" is the ID of the parent.
	//
	// Returns a sequence of children and an error if any.
	ListOwnedChildren(ctx context.Context, ownerID int, parentKind models.ParentKind, parentID int) (iter.Seq2[models.OrderedChild, error], error)
}

// ContentService is the interface that wraps methods for module content management
type ContentService interface {
	// CreateItemAndBind creates an item and appends it to a module of an owned course
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "moduleID" is the ID of the module.
	// "kind" is the item kind name (text, file, image, video).
	// "request" is the request body.
	//
	// Returns the ID of the created content and an error if any.
	CreateItemAndBind(ctx context.Context, ownerID, moduleID int, kind string, request *models.ItemRequest) (int, error)
	// UpdateItem updates the item behind a content row
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "contentID" is the ID of the content.
	// "request" is the request body.
	//
	// Returns the updated item and an error if any.
	UpdateItem(ctx context.Context, ownerID, contentID int, request *models.ItemRequest) (models.Item, error)
	// DeleteContent deletes a content row together with its item
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "contentID" is the ID of the content.
	//
	// Returns an error if any.
	DeleteContent(ctx context.Context, ownerID, contentID int) error
	// GetModuleContents retrieves a module of an owned course with its resolved contents
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "moduleID" is the ID of the module.
	//
	// Returns the module, its contents and an error if any.
	GetModuleContents(ctx context.Context, ownerID, moduleID int) (*models.Module, []models.ContentResponse, error)
}

// ReorderService is the interface that wraps methods for bulk position updates
type ReorderService interface {
	// ReorderModules applies a batch of module positions. Modules the instructor does not own are skipped.
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "request" maps module IDs to positions.
	//
	// Returns the applied and skipped counts and an error if any.
	ReorderModules(ctx context.Context, ownerID int, request *models.ReorderRequest) (models.ReorderResult, error)
	// ReorderContents applies a batch of content positions. Contents the instructor does not own are skipped.
	//
	// "ctx" is the context for the request.
	// "ownerID" is the ID of the instructor.
	// "request" maps content IDs to positions.
	//
	// Returns the applied and skipped counts and an error if any.
	ReorderContents(ctx context.Context, ownerID int, request *models.ReorderRequest) (models.ReorderResult, error)
}

// ChildResponse represents one ordered child of a course or module
type ChildResponse struct {
	ID       int `json:"id"`
	Position int `json:"position"`
}

// InstructorHandler handles HTTP requests for course authoring
type InstructorHandler struct {
	BaseHandler
	courses  CourseService
	contents ContentService
	reorder  ReorderService
}

// NewInstructorHandler creates a new instructor handler
func NewInstructorHandler(courses CourseService, contents ContentService, reorder ReorderService, logger *zap.Logger) *InstructorHandler {
	return &InstructorHandler{
		courses:     courses,
		contents:    contents,
		reorder:     reorder,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all instructor handler routes
func (h *InstructorHandler) RegisterRoutes(r chi.Router) {
	r.Route("/instructor", func(r chi.Router) {
		r.Route("/courses", func(r chi.Router) {
			r.Get("/", h.GetCourses)
			r.Post("/", h.CreateCourse)
			r.Patch("/{id}", h.UpdateCourse)
			r.Delete("/{id}", h.DeleteCourse)
			r.Get("/{id}/modules", h.GetCourseModules)
			r.Post("/{id}/modules", h.CreateModule)
		})
		r.Route("/modules", func(r chi.Router) {
			r.Post("/order", h.ReorderModules)
			r.Patch("/{id}", h.UpdateModule)
			r.Delete("/{id}", h.DeleteModule)
			r.Get("/{id}/contents", h.GetModuleContents)
			r.Post("/{id}/contents/{kind}", h.CreateContent)
		})
		r.Route("/contents", func(r chi.Router) {
			r.Post("/order", h.ReorderContents)
			r.Patch("/{id}", h.UpdateContent)
			r.Delete("/{id}", h.DeleteContent)
		})
		r.Get("/children/{parentKind}/{id}", h.GetChildren)
	})
}

// GetCourses handles GET /instructor/courses
// @Summary List own courses
// @Description List the courses owned by the authenticated instructor
// @Tags instructor
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CourseListItem "List of courses"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /instructor/courses [get]
func (h *InstructorHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}

	courses, err := h.courses.GetOwnedCourses(r.Context(), ownerID)
	if err != nil {
		h.RespondServiceError(w, err, "get owned courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// CreateCourse handles POST /instructor/courses
// @Summary Create course
// @Description Create a new course owned by the authenticated instructor
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCourseRequest true "Course"
// @Success 201 {object} map[string]int "Created course ID"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Subject not found"
// @Failure 409 {object} map[string]string "Slug already exists"
// @Router /instructor/courses [post]
func (h *InstructorHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.CreateCourseRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.OwnerID = ownerID

	id, err := h.courses.CreateCourse(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "create course")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// UpdateCourse handles PATCH /instructor/courses/{id}
// @Summary Update course
// @Description Update an owned course. Only the fields present are changed.
// @Tags instructor
// @Accept json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body models.UpdateCourseRequest true "Course fields"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /instructor/courses/{id} [patch]
func (h *InstructorHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}
	courseID, ok := h.pathID(w, r, "course")
	if !ok {
		return
	}

	var req models.UpdateCourseRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.courses.UpdateCourse(r.Context(), ownerID, courseID, &req); err != nil {
		h.RespondServiceError(w, err, "update course")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCourse handles DELETE /instructor/courses/{id}
// @Summary Delete course
// @Description Delete an owned course with all of its modules and contents
// @Tags instructor
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /instructor/courses/{id} [delete]
func (h *InstructorHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}
	courseID, ok := h.pathID(w, r, "course")
	if !ok {
		return
	}

	if err := h.courses.DeleteCourse(r.Context(), ownerID, courseID); err != nil {
		h.RespondServiceError(w, err, "delete course")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCourseModules handles GET /instructor/courses/{id}/modules
// @Summary Get course modules
// @Description Get an owned course with its modules in position order
// @Tags instructor
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} models.CourseDetailResponse "Course with modules"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /instructor/courses/{id}/modules [get]
func (h *InstructorHandler) GetCourseModules(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}
	courseID, ok := h.pathID(w, r, "course")
	if !ok {
		return
	}

	course, err := h.courses.GetCourseModules(r.Context(), ownerID, courseID)
	if err != nil {
		h.RespondServiceError(w, err, "get course modules")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// CreateModule handles POST /instructor/courses/{id}/modules
// @Summary Create module
// @Description Append a module to an owned course. Position defaults to the end of the course.
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body models.CreateModuleRequest true "Module"
// @Success 201 {object} models.Module "Created module"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /instructor/courses/{id}/modules [post]
func (h *InstructorHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}
	courseID, ok := h.pathID(w, r, "course")
	if !ok {
		return
	}

	var req models.CreateModuleRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	module, err := h.courses.CreateModule(r.Context(), ownerID, courseID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "create module")
		return
	}

	h.RespondJSON(w, http.StatusCreated, module)
}

// UpdateModule handles PATCH /instructor/modules/{id}
// @Summary Update module
// @Description Update a module of an owned course
// @Tags instructor
// @Accept json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Param request body models.UpdateModuleRequest true "Module fields"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Module not found"
// @Router /instructor/modules/{id} [patch]
func (h *InstructorHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}
	moduleID, ok := h.pathID(w, r, "module")
	if !ok {
		return
	}

	var req models.UpdateModuleRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.courses.UpdateModule(r.Context(), ownerID, moduleID, &req); err != nil {
		h.RespondServiceError(w, err, "update module")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteModule handles DELETE /instructor/modules/{id}
// @Summary Delete module
// @Description Delete a module of an owned course with its contents
// @Tags instructor
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Module not found"
// @Router /instructor/modules/{id} [delete]
func (h *InstructorHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}
	moduleID, ok := h.pathID(w, r, "module")
	if !ok {
		return
	}

	if err := h.courses.DeleteModule(r.Context(), ownerID, moduleID); err != nil {
		h.RespondServiceError(w, err, "delete module")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetModuleContents handles GET /instructor/modules/{id}/contents
// @Summary Get module contents
// @Description Get a module of an owned course with its contents in position order
// @Tags instructor
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Success 200 {object} map[string]any "Module and contents"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Module not found"
// @Router /instructor/modules/{id}/contents [get]
func (h *InstructorHandler) GetModuleContents(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}
	moduleID, ok := h.pathID(w, r, "module")
	if !ok {
		return
	}

	module, contents, err := h.contents.GetModuleContents(r.Context(), ownerID, moduleID)
	if err != nil {
		h.RespondServiceError(w, err, "get module contents")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"module":   module,
		"contents": contents,
	})
}

// CreateContent handles POST /instructor/modules/{id}/contents/{kind}
// @Summary Create content
// @Description Create an item of the given kind and append it to a module of an owned course
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Param kind path string true "Item kind" Enums(text, file, image, video)
// @Param request body models.ItemRequest true "Item"
// @Success 201 {object} map[string]int "Created content ID"
// @Failure 400 {object} map[string]string "Invalid kind or request"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Module not found"
// @Router /instructor/modules/{id}/contents/{kind} [post]
func (h *InstructorHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}
	moduleID, ok := h.pathID(w, r, "module")
	if !ok {
		return
	}

	var req models.ItemRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	id, err := h.contents.CreateItemAndBind(r.Context(), ownerID, moduleID, chi.URLParam(r, "kind"), &req)
	if err != nil {
		h.RespondServiceError(w, err, "create content")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// UpdateContent handles PATCH /instructor/contents/{id}
// @Summary Update content item
// @Description Update the item behind a content row of an owned course
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Param request body models.ItemRequest true "Item fields"
// @Success 200 {object} map[string]any "Updated item"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Content not found"
// @Router /instructor/contents/{id} [patch]
func (h *InstructorHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}
	contentID, ok := h.pathID(w, r, "content")
	if !ok {
		return
	}

	var req models.ItemRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	item, err := h.contents.UpdateItem(r.Context(), ownerID, contentID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "update content")
		return
	}

	h.RespondJSON(w, http.StatusOK, item)
}

// DeleteContent handles DELETE /instructor/contents/{id}
// @Summary Delete content
// @Description Delete a content row of an owned course together with its item
// @Tags instructor
// @Security BearerAuth
// @Param id path int true "Content ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Content not found"
// @Router /instructor/contents/{id} [delete]
func (h *InstructorHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}
	contentID, ok := h.pathID(w, r, "content")
	if !ok {
		return
	}

	if err := h.contents.DeleteContent(r.Context(), ownerID, contentID); err != nil {
		h.RespondServiceError(w, err, "delete content")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderModules handles POST /instructor/modules/order
// @Summary Reorder modules
// @Description Set module positions from an {"<id>": position} object. Modules of other instructors are skipped silently.
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body map[string]int true "Module ID to position"
// @Success 200 {object} map[string]string "Saved"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /instructor/modules/order [post]
func (h *InstructorHandler) ReorderModules(w http.ResponseWriter, r *http.Request) {
	h.applyOrder(w, r, "modules", h.reorder.ReorderModules)
}

// ReorderContents handles POST /instructor/contents/order
// @Summary Reorder contents
// @Description Set content positions from an {"<id>": position} object. Contents of other instructors are skipped silently.
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body map[string]int true "Content ID to position"
// @Success 200 {object} map[string]string "Saved"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /instructor/contents/order [post]
func (h *InstructorHandler) ReorderContents(w http.ResponseWriter, r *http.Request) {
	h.applyOrder(w, r, "contents", h.reorder.ReorderContents)
}

type reorderFunc func(ctx context.Context, ownerID int, request *models.ReorderRequest) (models.ReorderResult, error)

func (h *InstructorHandler) applyOrder(w http.ResponseWriter, r *http.Request, kind string, apply reorderFunc) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.ReorderRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := apply(r.Context(), ownerID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "reorder "+kind)
		return
	}

	// The acknowledgement does not reveal which rows were skipped
	h.Logger.Debug("reorder applied",
		zap.String("kind", kind),
		zap.Int("applied", result.Applied),
		zap.Int("skipped", result.Skipped),
		middlewares.RequestIDField(r.Context()),
	)
	h.RespondJSON(w, http.StatusOK, map[string]string{"saved": "OK"})
}

// GetChildren handles GET /instructor/children/{parentKind}/{id}
// @Summary List children
// @Description List the direct children of a course (modules) or a module (contents) in position order
// @Tags instructor
// @Produce json
// @Security BearerAuth
// @Param parentKind path string true "Parent level" Enums(course, module)
// @Param id path int true "Parent ID"
// @Success 200 {array} ChildResponse "Ordered children"
// @Failure 400 {object} map[string]string "Invalid parent kind"
// @Failure 403 {object} map[string]string "Parent belongs to another instructor"
// @Failure 404 {object} map[string]string "Parent not found"
// @Router /instructor/children/{parentKind}/{id} [get]
func (h *InstructorHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.userID(w, r)
	if !ok {
		return
	}
	parentID, ok := h.pathID(w, r, chi.URLParam(r, "parentKind"))
	if !ok {
		return
	}

	children, err := h.courses.ListOwnedChildren(r.Context(), ownerID, models.ParentKind(chi.URLParam(r, "parentKind")), parentID)
	if err != nil {
		h.RespondServiceError(w, err, "list children")
		return
	}

	response := []ChildResponse{}
	for child, err := range children {
		if err != nil {
			h.RespondServiceError(w, err, "list children")
			return
		}
		response = append(response, ChildResponse{ID: child.ChildID(), Position: child.ChildPosition()})
	}

	h.RespondJSON(w, http.StatusOK, response)
}
