package completion

import (
	"context"

	"github.com/quorumworks/teampool/internal/domain/escrow"
	"github.com/quorumworks/teampool/internal/domain/participant"
	"github.com/quorumworks/teampool/internal/domain/project"
)

// ProjectRepository exposes the project reads the protocol needs.
type ProjectRepository interface {
	Get(ctx context.Context, id int64) (*project.Project, error)
}

// ParticipantRegistry exposes the vote bookkeeping the protocol runs on.
type ParticipantRegistry interface {
	Get(ctx context.Context, projectID, memberID int64) (*participant.Participant, error)
	List(ctx context.Context, projectID int64) ([]participant.Participant, error)
	CountVoted(ctx context.Context, projectID int64) (int, error)
	MarkVoted(ctx context.Context, projectID, memberID int64) error
}

// EscrowLedger exposes the settlement operations on the escrow ledger.
type EscrowLedger interface {
	Get(ctx context.Context, projectID int64) (*escrow.Escrow, error)
	Release(ctx context.Context, projectID int64, shares []escrow.Share) error
}

// Locker serializes mutating operations per project id.
type Locker interface {
	Lock(id int64) (unlock func())
}
