package project_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quorumworks/teampool/internal/domain/escrow"
	"github.com/quorumworks/teampool/internal/domain/project"
	"github.com/quorumworks/teampool/internal/locks"
	"github.com/quorumworks/teampool/internal/repository"
	"github.com/quorumworks/teampool/internal/repository/mocks"
)

func validRequest() project.CreateRequest {
	return project.CreateRequest{
		OwnerID:  1,
		Name:     "Build the thing",
		Budget:   900,
		Deadline: time.Now().Add(24 * time.Hour),
		TeamSize: 3,
	}
}

func newServices(projects *mocks.ProjectRepository, escrows *mocks.EscrowRepository) *project.Service {
	return project.NewService(projects, escrow.NewService(escrows, nil), locks.NewKeyed(), nil)
}

func TestProjectService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newServices(&mocks.ProjectRepository{}, &mocks.EscrowRepository{})

	req := validRequest()
	req.Name = "  "
	_, err := svc.Create(ctx, req)
	require.ErrorIs(t, err, project.ErrInvalidInput)

	req = validRequest()
	req.Budget = 0
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, project.ErrInvalidBudget)

	req = validRequest()
	req.Budget = -5
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, project.ErrInvalidBudget)

	req = validRequest()
	req.TeamSize = 0
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, project.ErrInvalidTeamSize)
}

func TestProjectService_CreatePastDeadline(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newServices(&mocks.ProjectRepository{}, &mocks.EscrowRepository{}).
		WithClock(func() time.Time { return now })

	req := validRequest()
	req.Deadline = now.Add(-time.Minute)
	_, err := svc.Create(ctx, req)
	require.ErrorIs(t, err, project.ErrInvalidDeadline)

	// A deadline equal to now is also rejected
	req.Deadline = now
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, project.ErrInvalidDeadline)
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(int64(5), nil)

	svc := newServices(repo, &mocks.EscrowRepository{})
	proj, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	require.Equal(t, int64(5), proj.ID)
	require.Equal(t, project.StatusOpen, proj.Status)
	repo.AssertExpectations(t)
}

func TestProjectService_CreateInsufficientFunds(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(int64(0), repository.ErrInsufficientFunds)

	svc := newServices(repo, &mocks.EscrowRepository{})
	_, err := svc.Create(ctx, validRequest())
	require.ErrorIs(t, err, escrow.ErrInsufficientFunds)
}

func TestProjectService_CreateUnknownAccount(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(int64(0), repository.ErrNotFound)

	svc := newServices(repo, &mocks.EscrowRepository{})
	_, err := svc.Create(ctx, validRequest())
	require.ErrorIs(t, err, escrow.ErrAccountNotFound)
}

func TestProjectService_Cancel(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, int64(5)).Return(&project.Project{
		ID:      5,
		OwnerID: 1,
		Budget:  900,
		Status:  project.StatusOpen,
	}, nil)

	escrowRepo := &mocks.EscrowRepository{}
	escrowRepo.On("Refund", ctx, int64(5)).Return(nil)

	svc := newServices(repo, escrowRepo)
	proj, err := svc.Cancel(ctx, 1, 5)
	require.NoError(t, err)
	require.Equal(t, project.StatusCancelled, proj.Status)
	escrowRepo.AssertExpectations(t)
}

func TestProjectService_CancelNotOwner(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, int64(5)).Return(&project.Project{
		ID:      5,
		OwnerID: 1,
		Status:  project.StatusOpen,
	}, nil)

	escrowRepo := &mocks.EscrowRepository{}
	svc := newServices(repo, escrowRepo)
	_, err := svc.Cancel(ctx, 2, 5)
	require.ErrorIs(t, err, project.ErrNotOwner)
	escrowRepo.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
}

func TestProjectService_CancelTerminal(t *testing.T) {
	ctx := context.Background()

	for _, status := range []project.Status{project.StatusCompleted, project.StatusCancelled} {
		repo := &mocks.ProjectRepository{}
		repo.On("Get", ctx, int64(5)).Return(&project.Project{
			ID:      5,
			OwnerID: 1,
			Status:  status,
		}, nil)

		svc := newServices(repo, &mocks.EscrowRepository{})
		_, err := svc.Cancel(ctx, 1, 5)
		require.ErrorIs(t, err, project.ErrNotCancellable)
	}
}

func TestProjectService_CancelNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, int64(5)).Return((*project.Project)(nil), repository.ErrNotFound)

	svc := newServices(repo, &mocks.EscrowRepository{})
	_, err := svc.Cancel(ctx, 1, 5)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_GetDetails(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("GetDetails", ctx, int64(5)).Return(&project.Details{
		Project:   project.Project{ID: 5, Status: project.StatusActive},
		TeamCount: 3,
		Locked:    900,
	}, nil)

	svc := newServices(repo, &mocks.EscrowRepository{})
	details, err := svc.GetDetails(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 3, details.TeamCount)
	require.Equal(t, int64(900), details.Locked)

	repo = &mocks.ProjectRepository{}
	repo.On("GetDetails", ctx, int64(9)).Return((*project.Details)(nil), repository.ErrNotFound)
	svc = newServices(repo, &mocks.EscrowRepository{})
	_, err = svc.GetDetails(ctx, 9)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}
