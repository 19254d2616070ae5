package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when creating a user with a taken email
	ErrDuplicateEmail = errors.New("email already registered")
)
