package participant

import (
	"context"

	"github.com/quorumworks/teampool/internal/domain/project"
)

// Repository provides persistence for participants. Admit inserts the row
// and, when the admitted count reaches teamSize, flips the project from
// Open to Active in the same transaction; it reports whether the team is
// now assembled.
type Repository interface {
	Admit(ctx context.Context, p *Participant, teamSize int) (teamFull bool, err error)
	Get(ctx context.Context, projectID, memberID int64) (*Participant, error)
	List(ctx context.Context, projectID int64) ([]Participant, error)
	CountActive(ctx context.Context, projectID int64) (int, error)
	CountVoted(ctx context.Context, projectID int64) (int, error)
	MarkVoted(ctx context.Context, projectID, memberID int64) error
}

// ProjectRepository exposes the project reads the registry needs.
type ProjectRepository interface {
	Get(ctx context.Context, id int64) (*project.Project, error)
}

// Locker serializes mutating operations per project id.
type Locker interface {
	Lock(id int64) (unlock func())
}
