package models

import "time"

// Role levels carried in access tokens
const (
	RoleStudent    = 1
	RoleInstructor = 2
	RoleAdmin      = 3
)

// Enrollment represents a student enrolled in a course
type Enrollment struct {
	CourseID  int       `json:"courseId"`
	StudentID int       `json:"studentId"`
	Enrolled  time.Time `json:"enrolled"`
}
