package models

import "time"

// Course represents a course authored by an instructor
type Course struct {
	ID        int       `json:"id"`
	OwnerID   int       `json:"ownerId"`
	SubjectID int       `json:"subjectId"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Overview  string    `json:"overview"`
	Created   time.Time `json:"created"`
}

// CourseListItem represents a course in catalog responses
type CourseListItem struct {
	ID           int       `json:"id"`
	SubjectID    int       `json:"subjectId"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Overview     string    `json:"overview,omitempty"`
	Created      time.Time `json:"created"`
	TotalModules int       `json:"totalModules"`
}

// CourseDetailResponse represents a course together with its ordered modules
type CourseDetailResponse struct {
	Course
	Modules []Module `json:"modules"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	OwnerID   int    `json:"-"`
	SubjectID int    `json:"subjectId" validate:"required,gt=0"`
	Title     string `json:"title" validate:"required,max=200"`
	Slug      string `json:"slug" validate:"required,max=200,slug"`
	Overview  string `json:"overview" validate:"required"`
}

// UpdateCourseRequest represents a request to update a course (partial update)
type UpdateCourseRequest struct {
	SubjectID *int   `json:"subjectId,omitempty" validate:"omitempty,gt=0"`
	Title     string `json:"title,omitempty" validate:"omitempty,max=200"`
	Slug      string `json:"slug,omitempty" validate:"omitempty,max=200,slug"`
	Overview  string `json:"overview,omitempty"`
}
