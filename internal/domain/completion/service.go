package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quorumworks/teampool/internal/domain/escrow"
	"github.com/quorumworks/teampool/internal/domain/participant"
	"github.com/quorumworks/teampool/internal/domain/project"
	"github.com/quorumworks/teampool/internal/repository"
)

// Service is the completion voting protocol. Each active participant casts
// exactly one completion vote; the vote that brings the count to the team
// size fires the settlement trigger. Completion requires full unanimity: a
// participant who never votes blocks settlement indefinitely.
type Service struct {
	projects     ProjectRepository
	participants ParticipantRegistry
	escrows      EscrowLedger
	locks        Locker
	logger       *slog.Logger
}

// NewService creates a new completion service.
func NewService(
	projects ProjectRepository,
	participants ParticipantRegistry,
	escrows EscrowLedger,
	locks Locker,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		projects:     projects,
		participants: participants,
		escrows:      escrows,
		locks:        locks,
		logger:       logger,
	}
}

// Vote records a completion vote for the member. When the vote brings the
// voted count to the team size, settlement fires in the same critical
// section, so two votes arriving at the threshold concurrently cannot both
// trigger it. A vote stays committed even if the settlement it triggered
// fails; the payout can be retried with Settle.
func (s *Service) Vote(ctx context.Context, projectID, memberID int64) error {
	unlock := s.locks.Lock(projectID)
	defer unlock()

	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return project.ErrProjectNotFound
		}
		return fmt.Errorf("getting project: %w", err)
	}
	if proj.Status != project.StatusActive {
		return ErrProjectNotActive
	}

	p, err := s.participants.Get(ctx, projectID, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return participant.ErrNotAParticipant
		}
		return fmt.Errorf("getting participant: %w", err)
	}
	if p.Vote == participant.VotedComplete {
		return ErrAlreadyVoted
	}

	if err := s.participants.MarkVoted(ctx, projectID, memberID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyVoted
		}
		return fmt.Errorf("recording vote: %w", err)
	}

	voted, err := s.participants.CountVoted(ctx, projectID)
	if err != nil {
		return fmt.Errorf("counting votes: %w", err)
	}
	s.logger.Info("completion vote recorded",
		"project_id", projectID,
		"member_id", memberID,
		"voted", voted,
		"team_size", proj.TeamSize,
	)

	if voted == proj.TeamSize {
		return s.settle(ctx, projectID)
	}
	return nil
}

// Settle re-runs the settlement trigger for a project whose quorum is
// already reached. It exists as the reconciliation path for a settlement
// that failed after the final vote committed.
func (s *Service) Settle(ctx context.Context, projectID int64) error {
	unlock := s.locks.Lock(projectID)
	defer unlock()

	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return project.ErrProjectNotFound
		}
		return fmt.Errorf("getting project: %w", err)
	}
	if proj.Status != project.StatusActive {
		return ErrProjectNotActive
	}

	voted, err := s.participants.CountVoted(ctx, projectID)
	if err != nil {
		return fmt.Errorf("counting votes: %w", err)
	}
	if voted != proj.TeamSize {
		return ErrQuorumNotReached
	}

	return s.settle(ctx, projectID)
}

// settle distributes the locked amount among the participants who voted and
// marks the project Completed. The status flip and the released flag commit
// as one transaction inside the ledger; on failure the project stays Active.
func (s *Service) settle(ctx context.Context, projectID int64) error {
	esc, err := s.escrows.Get(ctx, projectID)
	if err != nil {
		return err
	}

	members, err := s.participants.List(ctx, projectID)
	if err != nil {
		return fmt.Errorf("listing participants: %w", err)
	}
	memberIDs := make([]int64, 0, len(members))
	for _, m := range members {
		if m.Vote == participant.VotedComplete {
			memberIDs = append(memberIDs, m.MemberID)
		}
	}

	shares := escrow.SplitShares(esc.Locked, memberIDs)
	if err := s.escrows.Release(ctx, projectID, shares); err != nil {
		s.logger.Error("settlement failed", "project_id", projectID, "error", err)
		return err
	}

	s.logger.Info("project settled",
		"project_id", projectID,
		"amount", esc.Locked,
		"participants", len(memberIDs),
	)
	return nil
}
