package store

import "errors"

// Validation sentinels surfaced directly to the user. All are recoverable:
// the user edits their input and retries.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrEmptyCategory     = errors.New("category name is empty")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrCategoryNotEmpty  = errors.New("category still has items")
)
