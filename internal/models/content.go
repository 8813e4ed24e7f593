package models

// Content binds an item of any kind to a position inside a module
type Content struct {
	ID       int      `json:"id"`
	ModuleID int      `json:"moduleId"`
	Kind     ItemKind `json:"kind"`
	ItemID   int      `json:"itemId"`
	Position int      `json:"position"`
}

// ChildID implements OrderedChild
func (c Content) ChildID() int { return c.ID }

// ChildPosition implements OrderedChild
func (c Content) ChildPosition() int { return c.Position }

// ContentResponse represents a content row with its resolved item
type ContentResponse struct {
	ID       int      `json:"id"`
	Kind     ItemKind `json:"kind"`
	Position int      `json:"position"`
	Item     Item     `json:"item"`
}

// OrderedChild is implemented by rows ordered inside a parent
type OrderedChild interface {
	ChildID() int
	ChildPosition() int
}

// ParentKind names a container level in the course hierarchy
type ParentKind string

const (
	ParentKindCourse ParentKind = "course"
	ParentKindModule ParentKind = "module"
)
