package models

// MaxPosition is the largest value a position column (INT UNSIGNED) can hold
const MaxPosition = 4294967295

// Module represents an ordered section of a course
type Module struct {
	ID          int    `json:"id"`
	CourseID    int    `json:"courseId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

// ChildID implements OrderedChild
func (m Module) ChildID() int { return m.ID }

// ChildPosition implements OrderedChild
func (m Module) ChildPosition() int { return m.Position }

// CreateModuleRequest represents a request to append a module to a course.
// Position is assigned automatically when omitted.
type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Position    *int   `json:"position,omitempty" validate:"omitempty,gte=0,lte=4294967295"`
}

// UpdateModuleRequest represents a request to update a module (partial update).
// The parent course cannot be changed.
type UpdateModuleRequest struct {
	Title       string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty"`
}
