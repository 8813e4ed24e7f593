package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SweepScheduler queues a sweep of content rows whose item no longer exists
type SweepScheduler interface {
	EnqueueContentSweep(ctx context.Context) error
}

// MaintenanceHandler handles service-to-service maintenance requests
type MaintenanceHandler struct {
	BaseHandler
	scheduler SweepScheduler
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(scheduler SweepScheduler, logger *zap.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		scheduler:   scheduler,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all maintenance handler routes
func (h *MaintenanceHandler) RegisterRoutes(r chi.Router) {
	r.Post("/maintenance/sweep", h.Sweep)
}

// Sweep handles POST /maintenance/sweep
// @Summary Queue content sweep
// @Description Queue removal of content rows that point at deleted items
// @Tags maintenance
// @Produce json
// @Security ApiKeyAuth
// @Success 202 {object} map[string]string "Queued"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /maintenance/sweep [post]
func (h *MaintenanceHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.EnqueueContentSweep(r.Context()); err != nil {
		h.Logger.Error("failed to enqueue content sweep", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
