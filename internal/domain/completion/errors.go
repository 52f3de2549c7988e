package completion

import "errors"

var (
	// ErrProjectNotActive indicates voting requires Active status.
	ErrProjectNotActive = errors.New("project is not active")
	// ErrAlreadyVoted indicates the participant already voted.
	ErrAlreadyVoted = errors.New("participant already voted")
	// ErrQuorumNotReached indicates not every participant has voted yet.
	ErrQuorumNotReached = errors.New("completion quorum not reached")
)
