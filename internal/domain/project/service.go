package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quorumworks/teampool/internal/domain/escrow"
	"github.com/quorumworks/teampool/internal/repository"
)

// Service owns the project state machine: creation with escrow deposit,
// owner cancellation with refund, and read queries. Status transitions other
// than cancellation are driven by the participant registry (Open to Active)
// and the completion protocol (Active to Completed).
type Service struct {
	projects Repository
	escrows  EscrowLedger
	locks    Locker
	clock    Clock
	logger   *slog.Logger
}

// NewService creates a new project service.
func NewService(projects Repository, escrows EscrowLedger, locks Locker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		projects: projects,
		escrows:  escrows,
		locks:    locks,
		clock:    time.Now,
		logger:   logger,
	}
}

// WithClock overrides the service clock. Test use only.
func (s *Service) WithClock(clock Clock) *Service {
	s.clock = clock
	return s
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	OwnerID     int64
	Name        string
	Description string
	Budget      int64
	Deadline    time.Time
	TeamSize    int
	DocumentRef string
}

// Create validates the request, allocates a project id and deposits the
// budget into escrow from the owner's funding account. A creation that
// cannot place funds in escrow creates nothing.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	if req.Budget <= 0 {
		return nil, ErrInvalidBudget
	}
	now := s.clock()
	if !req.Deadline.After(now) {
		return nil, ErrInvalidDeadline
	}
	if req.TeamSize < 1 {
		return nil, ErrInvalidTeamSize
	}

	proj := &Project{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Budget:      req.Budget,
		Deadline:    req.Deadline,
		TeamSize:    req.TeamSize,
		Status:      StatusOpen,
		DocumentRef: req.DocumentRef,
		CreatedAt:   now,
	}

	id, err := s.projects.Create(ctx, proj)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientFunds):
			return nil, escrow.ErrInsufficientFunds
		case errors.Is(err, repository.ErrConflict):
			return nil, escrow.ErrDuplicateEscrow
		case errors.Is(err, repository.ErrNotFound):
			return nil, escrow.ErrAccountNotFound
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}
	proj.ID = id

	s.logger.Info("project created",
		"project_id", id,
		"owner_id", req.OwnerID,
		"budget", req.Budget,
		"team_size", req.TeamSize,
	)
	return proj, nil
}

// Cancel tombstones a project. Only the owner may cancel, only while the
// status is Open or Active; the full locked amount is refunded to the owner
// and the status flip commits in the same transaction.
func (s *Service) Cancel(ctx context.Context, actorID, projectID int64) (*Project, error) {
	unlock := s.locks.Lock(projectID)
	defer unlock()

	proj, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if proj.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	if proj.Status.Terminal() {
		return nil, ErrNotCancellable
	}

	if err := s.escrows.Refund(ctx, projectID); err != nil {
		return nil, err
	}

	proj.Status = StatusCancelled
	s.logger.Info("project cancelled", "project_id", projectID, "refunded", proj.Budget)
	return proj, nil
}

// Get fetches a project by id.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	proj, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// GetDetails fetches a project snapshot with team, vote and escrow state.
func (s *Service) GetDetails(ctx context.Context, id int64) (*Details, error) {
	details, err := s.projects.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project details: %w", err)
	}
	return details, nil
}

// List returns summaries of all non-cancelled projects.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.projects.List(ctx)
}
