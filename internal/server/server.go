// Package server wires repositories, services and handlers into the versioned API routes
package server

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	authMiddleware "github.com/kydzoster/e-learning-dj-linux/internal/auth/middleware"
	"github.com/kydzoster/e-learning-dj-linux/internal/handlers"
	"github.com/kydzoster/e-learning-dj-linux/internal/metrics"
	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"github.com/kydzoster/e-learning-dj-linux/internal/repositories"
	"github.com/kydzoster/e-learning-dj-linux/internal/services"
	"go.uber.org/zap"
)

// Dependencies are the external collaborators of the API
type Dependencies struct {
	DB      *sql.DB
	Tokens  authMiddleware.TokenValidator
	Cache   services.CatalogCache
	Media   services.MediaCleaner
	Sweeps  handlers.SweepScheduler
	Metrics *metrics.Collector
	Logger  *zap.Logger
	APIKey  string
}

// RegisterRoutes mounts every API handler on r.
// Catalog routes are public, the rest are guarded by role or API key.
func RegisterRoutes(r chi.Router, deps Dependencies) {
	// Initialize repositories
	subjectRepo := repositories.NewSubjectRepository(deps.DB)
	courseRepo := repositories.NewCourseRepository(deps.DB)
	moduleRepo := repositories.NewModuleRepository(deps.DB)
	contentRepo := repositories.NewContentRepository(deps.DB)
	itemRepo := repositories.NewItemRepository(deps.DB)
	enrollmentRepo := repositories.NewEnrollmentRepository(deps.DB)

	// Initialize services
	refs := services.NewItemRefService(itemRepo, contentRepo, deps.Media, deps.Metrics, deps.Logger)
	contentService := services.NewContentService(moduleRepo, courseRepo, contentRepo, itemRepo, refs, deps.Logger)
	courseService := services.NewCourseService(courseRepo, moduleRepo, contentRepo, subjectRepo, refs, deps.Cache, deps.Logger)
	catalogService := services.NewCatalogService(subjectRepo, courseRepo, moduleRepo, enrollmentRepo, contentService, deps.Cache, deps.Logger)
	subjectService := services.NewSubjectService(subjectRepo, deps.Cache, deps.Logger)
	reorderService := services.NewReorderService(moduleRepo, contentRepo, deps.Metrics, deps.Logger)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService, deps.Logger)
	studentHandler := handlers.NewStudentHandler(catalogService, deps.Logger)
	instructorHandler := handlers.NewInstructorHandler(courseService, contentService, reorderService, deps.Logger)
	adminHandler := handlers.NewAdminHandler(subjectService, deps.Logger)
	maintenanceHandler := handlers.NewMaintenanceHandler(deps.Sweeps, deps.Logger)

	// Public endpoints
	catalogHandler.RegisterRoutes(r)

	// Student endpoints (Role 1+, JWT protected)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RoleMiddleware(deps.Tokens, models.RoleStudent))
		studentHandler.RegisterRoutes(r)
	})

	// Instructor endpoints (Role 2+, JWT protected)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RoleMiddleware(deps.Tokens, models.RoleInstructor))
		instructorHandler.RegisterRoutes(r)
	})

	// Admin endpoints (Role 3, JWT protected)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RoleMiddleware(deps.Tokens, models.RoleAdmin))
		adminHandler.RegisterRoutes(r)
	})

	// Service-to-service endpoints (API Key protected)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.APIKeyMiddleware(deps.APIKey))
		maintenanceHandler.RegisterRoutes(r)
	})
}
