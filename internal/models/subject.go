package models

// Subject represents a top-level catalog node courses are grouped under
type Subject struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// SubjectListItem represents a subject in catalog responses
type SubjectListItem struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	TotalCourses int    `json:"totalCourses"`
}

// CreateSubjectRequest represents a request to create a subject
type CreateSubjectRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

// UpdateSubjectRequest represents a request to update a subject (partial update)
type UpdateSubjectRequest struct {
	Title string `json:"title,omitempty" validate:"omitempty,max=200"`
	Slug  string `json:"slug,omitempty" validate:"omitempty,max=200,slug"`
}
