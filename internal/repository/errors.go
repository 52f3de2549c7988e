package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with existing state
	// (duplicate key, already-released escrow, already-recorded vote)
	ErrConflict = errors.New("conflict: state already changed")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInsufficientFunds is returned when a debit exceeds the account balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrShareMismatch is returned when payout shares don't sum to the locked amount
	ErrShareMismatch = errors.New("shares do not sum to locked amount")
)
