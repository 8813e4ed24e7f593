package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
)

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

const courseListColumns = `
	c.id,
	c.subject_id,
	c.title,
	c.slug,
	c.overview,
	c.created,
	(SELECT COUNT(*) FROM modules m WHERE m.course_id = c.id) AS total_modules
`

func scanCourseListItem(rows *sql.Rows) (models.CourseListItem, error) {
	var course models.CourseListItem
	err := rows.Scan(
		&course.ID,
		&course.SubjectID,
		&course.Title,
		&course.Slug,
		&course.Overview,
		&course.Created,
		&course.TotalModules,
	)
	if err != nil {
		return models.CourseListItem{}, fmt.Errorf("failed to scan course: %w", err)
	}
	return course, nil
}

// GetList retrieves courses newest first, optionally limited to one subject slug
func (r *courseRepository) GetList(ctx context.Context, subjectSlug string) ([]models.CourseListItem, error) {
	whereClause := ""
	var args []any
	if subjectSlug != "" {
		whereClause = "WHERE c.subject_id IN (SELECT id FROM subjects WHERE slug = ?)"
		args = append(args, subjectSlug)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM courses c
		%s
		ORDER BY c.created DESC, c.id DESC
	`, courseListColumns, whereClause)

	return collect(querySeq(ctx, r.db, query, args, scanCourseListItem))
}

// GetByOwner retrieves the courses of one instructor, newest first
func (r *courseRepository) GetByOwner(ctx context.Context, ownerID int) ([]models.CourseListItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM courses c
		WHERE c.owner_id = ?
		ORDER BY c.created DESC, c.id DESC
	`, courseListColumns)

	return collect(querySeq(ctx, r.db, query, []any{ownerID}, scanCourseListItem))
}

// GetByStudent retrieves the courses a student is enrolled in, newest first
func (r *courseRepository) GetByStudent(ctx context.Context, studentID int) ([]models.CourseListItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM courses c
		WHERE c.id IN (SELECT course_id FROM course_students WHERE student_id = ?)
		ORDER BY c.created DESC, c.id DESC
	`, courseListColumns)

	return collect(querySeq(ctx, r.db, query, []any{studentID}, scanCourseListItem))
}

func (r *courseRepository) getOne(ctx context.Context, column string, value any) (*models.Course, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, subject_id, title, slug, overview, created
		FROM courses
		WHERE %s = ?
		LIMIT 1
	`, column)

	var course models.Course
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&course.ID,
		&course.OwnerID,
		&course.SubjectID,
		&course.Title,
		&course.Slug,
		&course.Overview,
		&course.Created,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("course %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by %s: %w", column, err)
	}

	return &course, nil
}

// GetByID retrieves a course by its ID
func (r *courseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	return r.getOne(ctx, "id", id)
}

// GetBySlug retrieves a course by its slug
func (r *courseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	return r.getOne(ctx, "slug", slug)
}

// ExistsBySlug checks if a course with the given slug exists, ignoring excludeID
func (r *courseRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM courses WHERE slug = ? AND id <> ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check course slug existence: %w", err)
	}

	return exists, nil
}

// Create creates a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	course.Created = time.Now().UTC().Truncate(time.Second)

	query := `
		INSERT INTO courses (owner_id, subject_id, title, slug, overview, created)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		course.OwnerID,
		course.SubjectID,
		course.Title,
		course.Slug,
		course.Overview,
		course.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	course.ID = int(id)
	return nil
}

// Update updates a course (partial update)
func (r *courseRepository) Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error {
	var setParts []string
	var args []any

	if req.SubjectID != nil {
		setParts = append(setParts, "subject_id = ?")
		args = append(args, *req.SubjectID)
	}
	if req.Title != "" {
		setParts = append(setParts, "title = ?")
		args = append(args, req.Title)
	}
	if req.Slug != "" {
		setParts = append(setParts, "slug = ?")
		args = append(args, req.Slug)
	}
	if req.Overview != "" {
		setParts = append(setParts, "overview = ?")
		args = append(args, req.Overview)
	}

	if len(setParts) == 0 {
		return fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}

	query := fmt.Sprintf(`
		UPDATE courses
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("course %w", models.ErrNotFound)
	}

	return nil
}

// Delete deletes a course by ID. Modules, contents and enrollments are removed by cascade.
func (r *courseRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM courses WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("course %w", models.ErrNotFound)
	}

	return nil
}

// CheckOwnership checks if the course belongs to ownerID
func (r *courseRepository) CheckOwnership(ctx context.Context, id, ownerID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM courses WHERE id = ? AND owner_id = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check course ownership: %w", err)
	}

	return exists, nil
}
