package models

import "errors"

// Error kinds shared by repositories, services and handlers.
// Repositories wrap them with the entity name, e.g. fmt.Errorf("module %w", ErrNotFound).
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidKind = errors.New("invalid item kind")
	ErrForbidden   = errors.New("you do not have rights to manage this resource")
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("already exists")
)
