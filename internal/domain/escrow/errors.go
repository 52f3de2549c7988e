package escrow

import "errors"

var (
	// ErrInsufficientFunds indicates the funding account cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrDuplicateEscrow indicates an escrow already exists for the project.
	ErrDuplicateEscrow = errors.New("escrow already exists for project")
	// ErrEscrowNotFound indicates no escrow exists for the project.
	ErrEscrowNotFound = errors.New("escrow not found")
	// ErrAlreadyReleased indicates the escrow has already been paid out.
	ErrAlreadyReleased = errors.New("escrow already released")
	// ErrShareMismatch indicates shares don't sum to the locked amount.
	ErrShareMismatch = errors.New("shares do not sum to locked amount")
	// ErrAccountNotFound indicates the funding account doesn't exist.
	ErrAccountNotFound = errors.New("funding account not found")
	// ErrInvalidAmount indicates a zero or negative amount.
	ErrInvalidAmount = errors.New("amount must be positive")
)
