package member

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quorumworks/teampool/internal/repository"
)

// Service is the member directory. Registration issues an access key whose
// hash is stored; the transport layer resolves keys back to member ids.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new member service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// RegisterRequest defines member registration inputs.
type RegisterRequest struct {
	Name          string
	Email         string
	WalletAddress string
}

// Register creates a member with an empty funding account and returns the
// member plus the access key. The key is shown once and stored hashed.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Member, string, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, "", ErrInvalidInput
	}
	if strings.TrimSpace(req.WalletAddress) == "" {
		return nil, "", ErrInvalidInput
	}

	key := uuid.NewString()
	m := &Member{
		Name:          req.Name,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		WalletAddress: req.WalletAddress,
		CreatedAt:     time.Now(),
	}

	id, err := s.repo.Create(ctx, m, HashKey(key))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, "", ErrMemberExists
		}
		return nil, "", fmt.Errorf("creating member: %w", err)
	}
	m.ID = id

	s.logger.Info("member registered", "member_id", id)
	return m, key, nil
}

// Get fetches a member by id.
func (s *Service) Get(ctx context.Context, id int64) (*Member, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("getting member: %w", err)
	}
	return m, nil
}

// ResolveKey returns the member id an access key belongs to.
func (s *Service) ResolveKey(ctx context.Context, key string) (int64, error) {
	id, err := s.repo.ResolveKey(ctx, HashKey(key))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrMemberNotFound
		}
		return 0, fmt.Errorf("resolving key: %w", err)
	}
	return id, nil
}

// HashKey returns the hex sha256 digest stored for an access key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
