package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"github.com/kydzoster/e-learning-dj-linux/internal/ordering"
)

// modulePosition numbers modules per course
var modulePosition = ordering.NewField("modules", "position", "course_id")

type moduleRepository struct {
	db *sql.DB
}

// NewModuleRepository creates a new module repository
func NewModuleRepository(db *sql.DB) *moduleRepository {
	return &moduleRepository{
		db: db,
	}
}

func scanModule(rows *sql.Rows) (models.Module, error) {
	var module models.Module
	err := rows.Scan(
		&module.ID,
		&module.CourseID,
		&module.Title,
		&module.Description,
		&module.Position,
	)
	if err != nil {
		return models.Module{}, fmt.Errorf("failed to scan module: %w", err)
	}
	return module, nil
}

// IterByCourse lazily lists the modules of a course in position order
func (r *moduleRepository) IterByCourse(ctx context.Context, courseID int) iter.Seq2[models.Module, error] {
	query := `
		SELECT id, course_id, title, description, position
		FROM modules
		WHERE course_id = ?
		ORDER BY position, id
	`
	return querySeq(ctx, r.db, query, []any{courseID}, scanModule)
}

// GetByCourse retrieves all modules of a course in position order
func (r *moduleRepository) GetByCourse(ctx context.Context, courseID int) ([]models.Module, error) {
	return collect(r.IterByCourse(ctx, courseID))
}

// GetByID retrieves a module by its ID
func (r *moduleRepository) GetByID(ctx context.Context, id int) (*models.Module, error) {
	query := `
		SELECT id, course_id, title, description, position
		FROM modules
		WHERE id = ?
		LIMIT 1
	`

	var module models.Module
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&module.ID,
		&module.CourseID,
		&module.Title,
		&module.Description,
		&module.Position,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("module %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module by id: %w", err)
	}

	return &module, nil
}

// Create inserts a module. When position is nil the module is appended
// after the last module of its course.
func (r *moduleRepository) Create(ctx context.Context, module *models.Module, position *int) error {
	resolved, err := modulePosition.Resolve(ctx, r.db, position, module.CourseID)
	if err != nil {
		return err
	}
	module.Position = resolved

	query := `
		INSERT INTO modules (course_id, title, description, position)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		module.CourseID,
		module.Title,
		module.Description,
		module.Position,
	)
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	module.ID = int(id)
	return nil
}

// Update updates a module (partial update). Position and course are not touched.
func (r *moduleRepository) Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error {
	var setParts []string
	var args []any

	if req.Title != "" {
		setParts = append(setParts, "title = ?")
		args = append(args, req.Title)
	}
	if req.Description != nil {
		setParts = append(setParts, "description = ?")
		args = append(args, *req.Description)
	}

	if len(setParts) == 0 {
		return fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}

	query := fmt.Sprintf(`
		UPDATE modules
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update module: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("module %w", models.ErrNotFound)
	}

	return nil
}

// Delete deletes a module by ID. Its contents are removed by cascade.
func (r *moduleRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM modules WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("module %w", models.ErrNotFound)
	}

	return nil
}

// UpdatePositionOwned sets the position of a module whose course belongs to ownerID.
// Returns false when no such module exists for that owner.
func (r *moduleRepository) UpdatePositionOwned(ctx context.Context, id, position, ownerID int) (bool, error) {
	query := `
		UPDATE modules
		SET position = ?
		WHERE id = ? AND course_id IN (SELECT id FROM courses WHERE owner_id = ?)
	`

	result, err := r.db.ExecContext(ctx, query, position, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to update module position: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// CheckOwnership checks if the module belongs to a course owned by ownerID
func (r *moduleRepository) CheckOwnership(ctx context.Context, id, ownerID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM modules WHERE id = ? AND course_id IN (SELECT id FROM courses WHERE owner_id = ?))`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check module ownership: %w", err)
	}

	return exists, nil
}
