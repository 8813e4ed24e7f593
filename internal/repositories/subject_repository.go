package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
)

type subjectRepository struct {
	db *sql.DB
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *sql.DB) *subjectRepository {
	return &subjectRepository{
		db: db,
	}
}

// GetAll retrieves every subject ordered by title, with its course count
func (r *subjectRepository) GetAll(ctx context.Context) ([]models.SubjectListItem, error) {
	query := `
		SELECT
			s.id,
			s.title,
			s.slug,
			(SELECT COUNT(*) FROM courses c WHERE c.subject_id = s.id) AS total_courses
		FROM subjects s
		ORDER BY s.title, s.id
	`

	return collect(querySeq(ctx, r.db, query, nil, func(rows *sql.Rows) (models.SubjectListItem, error) {
		var subject models.SubjectListItem
		if err := rows.Scan(&subject.ID, &subject.Title, &subject.Slug, &subject.TotalCourses); err != nil {
			return models.SubjectListItem{}, fmt.Errorf("failed to scan subject: %w", err)
		}
		return subject, nil
	}))
}

func (r *subjectRepository) getOne(ctx context.Context, column string, value any) (*models.Subject, error) {
	query := fmt.Sprintf(`
		SELECT id, title, slug
		FROM subjects
		WHERE %s = ?
		LIMIT 1
	`, column)

	var subject models.Subject
	err := r.db.QueryRowContext(ctx, query, value).Scan(&subject.ID, &subject.Title, &subject.Slug)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("subject %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject by %s: %w", column, err)
	}

	return &subject, nil
}

// GetByID retrieves a subject by its ID
func (r *subjectRepository) GetByID(ctx context.Context, id int) (*models.Subject, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves a subject by its slug
func (r *subjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Subject, error) {
	return r.getOne(ctx, "slug", slug)
}

// ExistsBySlug checks if a subject with the given slug exists, ignoring excludeID
func (r *subjectRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM subjects WHERE slug = ? AND id <> ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check subject slug existence: %w", err)
	}

	return exists, nil
}

// Create creates a new subject
func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := `INSERT INTO subjects (title, slug) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, subject.Title, subject.Slug)
	if err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	subject.ID = int(id)
	return nil
}

// Update updates a subject (partial update)
func (r *subjectRepository) Update(ctx context.Context, id int, req *models.UpdateSubjectRequest) error {
	var setParts []string
	var args []any

	if req.Title != "" {
		setParts = append(setParts, "title = ?")
		args = append(args, req.Title)
	}
	if req.Slug != "" {
		setParts = append(setParts, "slug = ?")
		args = append(args, req.Slug)
	}

	if len(setParts) == 0 {
		return fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}

	query := fmt.Sprintf(`
		UPDATE subjects
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update subject: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("subject %w", models.ErrNotFound)
	}

	return nil
}
