package store

import "errors"

var (
	// ErrUsernameTaken reports a registration against an existing username
	// (case-sensitive exact match).
	ErrUsernameTaken = errors.New("username already exists")

	// ErrEmptyCredential reports a registration or login with a blank
	// username or password.
	ErrEmptyCredential = errors.New("username and password must not be empty")

	// ErrEmptyTitle and ErrEmptyDueDate report task validation failures;
	// the stored list is left unchanged.
	ErrEmptyTitle   = errors.New("task title must not be empty")
	ErrEmptyDueDate = errors.New("task due date must not be empty")

	// ErrBadDueDate reports a due date that is not a YYYY-MM-DD key.
	ErrBadDueDate = errors.New("task due date must be YYYY-MM-DD")

	errIDSpaceExhausted = errors.New("could not allocate a unique task id")
)
