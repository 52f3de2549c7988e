package participant

import "time"

// VoteStatus represents a participant's completion-vote state.
type VoteStatus string

const (
	NotVoted      VoteStatus = "NOT_VOTED"
	VotedComplete VoteStatus = "VOTED_COMPLETE"
)

// Participant is a member admitted to a project. The (project id, member id)
// pair is unique; participants are never removed, only marked.
type Participant struct {
	ProjectID int64      `json:"project_id"`
	MemberID  int64      `json:"member_id"`
	JoinedAt  time.Time  `json:"joined_at"`
	Vote      VoteStatus `json:"vote"`
	Active    bool       `json:"active"`
}
