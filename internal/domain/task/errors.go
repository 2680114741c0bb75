package task

import "errors"

var (
	// ErrTaskNotFound indicates the task doesn't exist for this user.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidPriority indicates a priority outside P1..P5.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidSort indicates an unknown sort field or order.
	ErrInvalidSort = errors.New("invalid sort option")
	// ErrInvalidInput indicates invalid input for task operations.
	ErrInvalidInput = errors.New("invalid task input")
)
