package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"go.uber.org/zap"
)

// SubjectService is the interface that wraps methods for subject management
type SubjectService interface {
	// CreateSubject creates a new subject
	//
	// "ctx" is the context for the request.
	// "request" is the request body.
	//
	// Returns the ID of the created subject and an error if any.
	CreateSubject(ctx context.Context, request *models.CreateSubjectRequest) (int, error)
	// UpdateSubject updates a subject
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the subject.
	// "request" is the request body.
	//
	// Returns an error if any.
	UpdateSubject(ctx context.Context, id int, request *models.UpdateSubjectRequest) error
}

// AdminHandler handles HTTP requests for catalog administration
type AdminHandler struct {
	BaseHandler
	service SubjectService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc SubjectService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all admin handler routes
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/subjects", func(r chi.Router) {
		r.Post("/", h.CreateSubject)
		r.Patch("/{id}", h.UpdateSubject)
	})
}

// CreateSubject handles POST /admin/subjects
// @Summary Create subject
// @Description Create a new subject
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateSubjectRequest true "Subject"
// @Success 201 {object} map[string]int "Created subject ID"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Slug already exists"
// @Router /admin/subjects [post]
func (h *AdminHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubjectRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	id, err := h.service.CreateSubject(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "create subject")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]int{"id": id})
}

// UpdateSubject handles PATCH /admin/subjects/{id}
// @Summary Update subject
// @Description Update a subject. Only the fields present are changed.
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param request body models.UpdateSubjectRequest true "Subject fields"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Subject not found"
// @Failure 409 {object} map[string]string "Slug already exists"
// @Router /admin/subjects/{id} [patch]
func (h *AdminHandler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "subject")
	if !ok {
		return
	}

	var req models.UpdateSubjectRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateSubject(r.Context(), id, &req); err != nil {
		h.RespondServiceError(w, err, "update subject")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
