package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when the requested row does not exist.
	// Services wrap it with entity context before it reaches a client.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert collides with an existing
	// row on a unique or primary key.
	ErrDuplicate = errors.New("duplicate record")
)
