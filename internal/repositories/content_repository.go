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

// contentPosition numbers contents per module
var contentPosition = ordering.NewField("contents", "position", "module_id")

const ownedModulesSubquery = `SELECT id FROM modules WHERE course_id IN (SELECT id FROM courses WHERE owner_id = ?)`

type contentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *sql.DB) *contentRepository {
	return &contentRepository{
		db: db,
	}
}

func scanContent(rows *sql.Rows) (models.Content, error) {
	var content models.Content
	err := rows.Scan(
		&content.ID,
		&content.ModuleID,
		&content.Kind,
		&content.ItemID,
		&content.Position,
	)
	if err != nil {
		return models.Content{}, fmt.Errorf("failed to scan content: %w", err)
	}
	return content, nil
}

// IterByModule lazily lists the contents of a module in position order
func (r *contentRepository) IterByModule(ctx context.Context, moduleID int) iter.Seq2[models.Content, error] {
	query := `
		SELECT id, module_id, kind, item_id, position
		FROM contents
		WHERE module_id = ?
		ORDER BY position, id
	`
	return querySeq(ctx, r.db, query, []any{moduleID}, scanContent)
}

// GetByModule retrieves all contents of a module in position order
func (r *contentRepository) GetByModule(ctx context.Context, moduleID int) ([]models.Content, error) {
	return collect(r.IterByModule(ctx, moduleID))
}

// GetByCourse retrieves the contents of every module of a course
func (r *contentRepository) GetByCourse(ctx context.Context, courseID int) ([]models.Content, error) {
	query := `
		SELECT id, module_id, kind, item_id, position
		FROM contents
		WHERE module_id IN (SELECT id FROM modules WHERE course_id = ?)
		ORDER BY module_id, position, id
	`
	return collect(querySeq(ctx, r.db, query, []any{courseID}, scanContent))
}

// GetByID retrieves a content by its ID
func (r *contentRepository) GetByID(ctx context.Context, id int) (*models.Content, error) {
	query := `
		SELECT id, module_id, kind, item_id, position
		FROM contents
		WHERE id = ?
		LIMIT 1
	`

	var content models.Content
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&content.ID,
		&content.ModuleID,
		&content.Kind,
		&content.ItemID,
		&content.Position,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("content %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content by id: %w", err)
	}

	return &content, nil
}

// Create binds an item reference to a module. When position is nil the
// content is appended after the last content of its module.
func (r *contentRepository) Create(ctx context.Context, content *models.Content, position *int) error {
	if _, err := tableFor(content.Kind); err != nil {
		return err
	}

	resolved, err := contentPosition.Resolve(ctx, r.db, position, content.ModuleID)
	if err != nil {
		return err
	}
	content.Position = resolved

	query := `
		INSERT INTO contents (module_id, kind, item_id, position)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		content.ModuleID,
		content.Kind,
		content.ItemID,
		content.Position,
	)
	if err != nil {
		return fmt.Errorf("failed to create content: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	content.ID = int(id)
	return nil
}

// Delete deletes a content by ID. The referenced item is left untouched.
func (r *contentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM contents WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("content %w", models.ErrNotFound)
	}

	return nil
}

// UpdatePositionOwned sets the position of a content whose module's course belongs to ownerID.
// Returns false when no such content exists for that owner.
func (r *contentRepository) UpdatePositionOwned(ctx context.Context, id, position, ownerID int) (bool, error) {
	query := `
		UPDATE contents
		SET position = ?
		WHERE id = ? AND module_id IN (` + ownedModulesSubquery + `)
	`

	result, err := r.db.ExecContext(ctx, query, position, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to update content position: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// CheckOwnership checks if the content belongs to a module of a course owned by ownerID
func (r *contentRepository) CheckOwnership(ctx context.Context, id, ownerID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM contents WHERE id = ? AND module_id IN (` + ownedModulesSubquery + `))`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check content ownership: %w", err)
	}

	return exists, nil
}

// GetDangling retrieves contents whose referenced item no longer exists
func (r *contentRepository) GetDangling(ctx context.Context) ([]models.Content, error) {
	conditions := make([]string, 0, len(models.ItemKinds))
	args := make([]any, 0, len(models.ItemKinds))
	for _, kind := range models.ItemKinds {
		table := itemTables[kind]
		conditions = append(conditions, fmt.Sprintf("(kind = ? AND item_id NOT IN (SELECT id FROM %s))", table.name))
		args = append(args, kind)
	}

	query := fmt.Sprintf(`
		SELECT id, module_id, kind, item_id, position
		FROM contents
		WHERE %s
		ORDER BY id
	`, strings.Join(conditions, " OR "))

	return collect(querySeq(ctx, r.db, query, args, scanContent))
}
