package escrow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quorumworks/teampool/internal/repository"
)

// Service is the budget escrow ledger: it exposes the release and refund
// operations and the funding-account abstraction they run on. Opening an
// escrow happens inside project creation (one transaction with the project
// row); everything else goes through here.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new escrow service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// Get fetches the escrow for a project.
func (s *Service) Get(ctx context.Context, projectID int64) (*Escrow, error) {
	esc, err := s.repo.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEscrowNotFound
		}
		return nil, fmt.Errorf("getting escrow: %w", err)
	}
	return esc, nil
}

// Release pays out the locked amount to the given beneficiaries and marks
// the escrow released. The call is atomic: either every beneficiary is
// credited, the released flag set and the project completed, or nothing
// changes. Shares must sum to the locked amount exactly.
func (s *Service) Release(ctx context.Context, projectID int64, shares []Share) error {
	esc, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if esc.Released {
		return ErrAlreadyReleased
	}
	if SumShares(shares) != esc.Locked {
		s.logger.Error("settlement share mismatch",
			"project_id", projectID,
			"locked", esc.Locked,
			"shares_total", SumShares(shares),
		)
		return ErrShareMismatch
	}

	if err := s.repo.Settle(ctx, projectID, shares); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrEscrowNotFound
		case errors.Is(err, repository.ErrConflict):
			return ErrAlreadyReleased
		}
		return fmt.Errorf("settling escrow: %w", err)
	}

	s.logger.Info("escrow released",
		"project_id", projectID,
		"amount", esc.Locked,
		"beneficiaries", len(shares),
	)
	return nil
}

// Refund returns the full locked amount to the project owner and tombstones
// the project as Cancelled in the same transaction. Only valid while the
// escrow is unreleased.
func (s *Service) Refund(ctx context.Context, projectID int64) error {
	if err := s.repo.Refund(ctx, projectID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrEscrowNotFound
		case errors.Is(err, repository.ErrConflict):
			return ErrAlreadyReleased
		}
		return fmt.Errorf("refunding escrow: %w", err)
	}
	s.logger.Info("escrow refunded", "project_id", projectID)
	return nil
}

// Fund credits a member's funding account from outside the system.
func (s *Service) Fund(ctx context.Context, memberID, amount int64) (*Account, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := s.repo.CreditAccount(ctx, memberID, amount); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("crediting account: %w", err)
	}
	return s.Balance(ctx, memberID)
}

// Balance fetches a member's funding account.
func (s *Service) Balance(ctx context.Context, memberID int64) (*Account, error) {
	account, err := s.repo.GetAccount(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return account, nil
}

// Transfers lists the recorded fund movement legs for a project.
func (s *Service) Transfers(ctx context.Context, projectID int64) ([]Transfer, error) {
	return s.repo.ListTransfers(ctx, projectID)
}
