package store

import "errors"

var (
	// ErrValidation reports a bad or missing required field.
	ErrValidation = errors.New("validation failed")

	// ErrItemNotFound reports an item id with no backing record.
	ErrItemNotFound = errors.New("item not found")

	// ErrIDCollision reports that a freshly built item id already exists.
	// The create is rejected; the existing record is never overwritten.
	ErrIDCollision = errors.New("item id collision")
)
