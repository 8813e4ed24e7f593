package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kydzoster/e-learning-dj-linux/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

// IsEnrolled checks if a student is enrolled in a course
func (r *enrollmentRepository) IsEnrolled(ctx context.Context, courseID, studentID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM course_students WHERE course_id = ? AND student_id = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, courseID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}

	return exists, nil
}

// Create enrolls a student in a course
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.Enrolled = time.Now().UTC().Truncate(time.Second)

	query := `
		INSERT INTO course_students (course_id, student_id, enrolled)
		VALUES (?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, enrollment.CourseID, enrollment.StudentID, enrollment.Enrolled)
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	return nil
}
