package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidBudget indicates the budget is zero or negative.
	ErrInvalidBudget = errors.New("budget must be positive")
	// ErrInvalidDeadline indicates the deadline is not in the future.
	ErrInvalidDeadline = errors.New("deadline must be in the future")
	// ErrInvalidTeamSize indicates the required team size is below one.
	ErrInvalidTeamSize = errors.New("team size must be at least 1")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrNotOwner indicates the actor is not the project owner.
	ErrNotOwner = errors.New("only the project owner may cancel")
	// ErrNotCancellable indicates the project is already in a terminal status.
	ErrNotCancellable = errors.New("project is not cancellable")
)
