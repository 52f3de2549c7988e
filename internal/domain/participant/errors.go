package participant

import "errors"

var (
	// ErrAlreadyParticipant indicates the member already joined the project.
	ErrAlreadyParticipant = errors.New("already participating in project")
	// ErrProjectFull indicates the admitted count equals the team size.
	ErrProjectFull = errors.New("project team is full")
	// ErrProjectNotJoinable indicates the project is not Open or Active.
	ErrProjectNotJoinable = errors.New("project is not joinable")
	// ErrNotAParticipant indicates the member is not registered for the project.
	ErrNotAParticipant = errors.New("not a participant of project")
)
