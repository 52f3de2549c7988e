package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quorumworks/teampool/internal/domain/document"
	"github.com/quorumworks/teampool/internal/domain/escrow"
	"github.com/quorumworks/teampool/internal/domain/member"
	"github.com/quorumworks/teampool/internal/domain/participant"
	"github.com/quorumworks/teampool/internal/domain/project"
)

// ProjectRepository is a mock for repository.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) (int64, error) {
	args := m.Called(ctx, proj)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) GetDetails(ctx context.Context, id int64) (*project.Details, error) {
	args := m.Called(ctx, id)
	if details, ok := args.Get(0).(*project.Details); ok {
		return details, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Summary, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ParticipantRepository is a mock for repository.ParticipantRepository.
type ParticipantRepository struct {
	mock.Mock
}

func (m *ParticipantRepository) Admit(ctx context.Context, p *participant.Participant, teamSize int) (bool, error) {
	args := m.Called(ctx, p, teamSize)
	return args.Bool(0), args.Error(1)
}

func (m *ParticipantRepository) Get(ctx context.Context, projectID, memberID int64) (*participant.Participant, error) {
	args := m.Called(ctx, projectID, memberID)
	if p, ok := args.Get(0).(*participant.Participant); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) List(ctx context.Context, projectID int64) ([]participant.Participant, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]participant.Participant); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) CountActive(ctx context.Context, projectID int64) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

func (m *ParticipantRepository) CountVoted(ctx context.Context, projectID int64) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

func (m *ParticipantRepository) MarkVoted(ctx context.Context, projectID, memberID int64) error {
	args := m.Called(ctx, projectID, memberID)
	return args.Error(0)
}

// EscrowRepository is a mock for repository.EscrowRepository.
type EscrowRepository struct {
	mock.Mock
}

func (m *EscrowRepository) Get(ctx context.Context, projectID int64) (*escrow.Escrow, error) {
	args := m.Called(ctx, projectID)
	if esc, ok := args.Get(0).(*escrow.Escrow); ok {
		return esc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EscrowRepository) Settle(ctx context.Context, projectID int64, shares []escrow.Share) error {
	args := m.Called(ctx, projectID, shares)
	return args.Error(0)
}

func (m *EscrowRepository) Refund(ctx context.Context, projectID int64) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *EscrowRepository) CreditAccount(ctx context.Context, memberID, amount int64) error {
	args := m.Called(ctx, memberID, amount)
	return args.Error(0)
}

func (m *EscrowRepository) GetAccount(ctx context.Context, memberID int64) (*escrow.Account, error) {
	args := m.Called(ctx, memberID)
	if account, ok := args.Get(0).(*escrow.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EscrowRepository) ListTransfers(ctx context.Context, projectID int64) ([]escrow.Transfer, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]escrow.Transfer); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// MemberRepository is a mock for repository.MemberRepository.
type MemberRepository struct {
	mock.Mock
}

func (m *MemberRepository) Create(ctx context.Context, mem *member.Member, keyHash string) (int64, error) {
	args := m.Called(ctx, mem, keyHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MemberRepository) Get(ctx context.Context, id int64) (*member.Member, error) {
	args := m.Called(ctx, id)
	if mem, ok := args.Get(0).(*member.Member); ok {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) ResolveKey(ctx context.Context, keyHash string) (int64, error) {
	args := m.Called(ctx, keyHash)
	return args.Get(0).(int64), args.Error(1)
}

// DocumentRepository is a mock for repository.DocumentRepository.
type DocumentRepository struct {
	mock.Mock
}

func (m *DocumentRepository) Put(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *DocumentRepository) Get(ctx context.Context, ref string) (*document.Document, error) {
	args := m.Called(ctx, ref)
	if doc, ok := args.Get(0).(*document.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}
