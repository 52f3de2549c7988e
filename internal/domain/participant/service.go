package participant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quorumworks/teampool/internal/domain/project"
	"github.com/quorumworks/teampool/internal/repository"
)

// Service is the participant registry: it admits members to projects until
// the required team size is reached and answers the count queries the
// voting protocol runs on.
type Service struct {
	participants Repository
	projects     ProjectRepository
	locks        Locker
	logger       *slog.Logger
}

// NewService creates a new participant service.
func NewService(participants Repository, projects ProjectRepository, locks Locker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		participants: participants,
		projects:     projects,
		locks:        locks,
		logger:       logger,
	}
}

// Admit registers a member for a project. It fails if the member already
// joined, the project is full, or the project is not Open or Active. The
// admission that fills the last slot flips the project to Active.
func (s *Service) Admit(ctx context.Context, projectID, memberID int64) (*Participant, error) {
	unlock := s.locks.Lock(projectID)
	defer unlock()

	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	if proj.Status != project.StatusOpen && proj.Status != project.StatusActive {
		return nil, ErrProjectNotJoinable
	}

	count, err := s.participants.CountActive(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("counting participants: %w", err)
	}
	if count >= proj.TeamSize {
		return nil, ErrProjectFull
	}

	p := &Participant{
		ProjectID: projectID,
		MemberID:  memberID,
		JoinedAt:  time.Now(),
		Vote:      NotVoted,
		Active:    true,
	}

	teamFull, err := s.participants.Admit(ctx, p, proj.TeamSize)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyParticipant
		}
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("admitting participant: %w", err)
	}

	if teamFull {
		s.logger.Info("team assembled", "project_id", projectID, "team_size", proj.TeamSize)
	}
	s.logger.Info("participant admitted", "project_id", projectID, "member_id", memberID)
	return p, nil
}

// Get fetches one participant row.
func (s *Service) Get(ctx context.Context, projectID, memberID int64) (*Participant, error) {
	p, err := s.participants.Get(ctx, projectID, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotAParticipant
		}
		return nil, fmt.Errorf("getting participant: %w", err)
	}
	return p, nil
}

// List returns all participants of a project in ascending member-id order.
func (s *Service) List(ctx context.Context, projectID int64) ([]Participant, error) {
	return s.participants.List(ctx, projectID)
}

// CountActive returns the number of admitted active participants.
func (s *Service) CountActive(ctx context.Context, projectID int64) (int, error) {
	return s.participants.CountActive(ctx, projectID)
}

// CountVoted returns the number of participants who voted for completion.
func (s *Service) CountVoted(ctx context.Context, projectID int64) (int, error) {
	return s.participants.CountVoted(ctx, projectID)
}
