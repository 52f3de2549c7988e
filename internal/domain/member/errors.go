package member

import "errors"

var (
	// ErrMemberNotFound indicates the member doesn't exist.
	ErrMemberNotFound = errors.New("member not found")
	// ErrMemberExists indicates the email or wallet address is taken.
	ErrMemberExists = errors.New("member already exists")
	// ErrInvalidInput indicates invalid member input.
	ErrInvalidInput = errors.New("invalid member input")
)
