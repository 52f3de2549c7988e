package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quorumworks/teampool/internal/domain/completion"
	"github.com/quorumworks/teampool/internal/domain/escrow"
	"github.com/quorumworks/teampool/internal/domain/member"
	"github.com/quorumworks/teampool/internal/domain/participant"
	"github.com/quorumworks/teampool/internal/domain/project"
	"github.com/quorumworks/teampool/internal/locks"
)

// engine wires the full service stack over one test database.
type engine struct {
	db           *DB
	projects     *project.Service
	participants *participant.Service
	completion   *completion.Service
	escrow       *escrow.Service
	members      *member.Service
}

func newEngine(t *testing.T) *engine {
	t.Helper()

	db := NewTestDB(t)
	projectRepo := NewProjectRepository(db)
	participantRepo := NewParticipantRepository(db)
	escrowRepo := NewEscrowRepository(db)
	memberRepo := NewMemberRepository(db)
	keyed := locks.NewKeyed()

	escrowSvc := escrow.NewService(escrowRepo, nil)
	return &engine{
		db:           db,
		projects:     project.NewService(projectRepo, escrowSvc, keyed, nil),
		participants: participant.NewService(participantRepo, projectRepo, keyed, nil),
		completion:   completion.NewService(projectRepo, participantRepo, escrowSvc, keyed, nil),
		escrow:       escrowSvc,
		members:      memberSvc(memberRepo),
	}
}

func memberSvc(repo *MemberRepository) *member.Service {
	return member.NewService(repo, nil)
}

func (e *engine) register(t *testing.T, name string, funds int64) int64 {
	t.Helper()

	m, _, err := e.members.Register(context.Background(), member.RegisterRequest{
		Name:          name,
		Email:         name + "@example.com",
		WalletAddress: "0x" + name,
	})
	require.NoError(t, err)

	if funds > 0 {
		_, err = e.escrow.Fund(context.Background(), m.ID, funds)
		require.NoError(t, err)
	}
	return m.ID
}

func (e *engine) create(t *testing.T, ownerID, budget int64, teamSize int) int64 {
	t.Helper()

	proj, err := e.projects.Create(context.Background(), project.CreateRequest{
		OwnerID:  ownerID,
		Name:     "Ship it",
		Budget:   budget,
		Deadline: time.Now().Add(24 * time.Hour),
		TeamSize: teamSize,
	})
	require.NoError(t, err)
	return proj.ID
}

func (e *engine) balance(t *testing.T, memberID int64) int64 {
	t.Helper()

	account, err := e.escrow.Balance(context.Background(), memberID)
	require.NoError(t, err)
	return account.Balance
}

func TestLifecycle_FullHappyPath(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	owner := e.register(t, "owner", 1000)
	workers := []int64{
		e.register(t, "w1", 0),
		e.register(t, "w2", 0),
		e.register(t, "w3", 0),
	}

	projectID := e.create(t, owner, 900, 3)
	require.Equal(t, int64(100), e.balance(t, owner))

	// Team fills up, project activates on the last admission
	for i, w := range workers {
		_, err := e.participants.Admit(ctx, projectID, w)
		require.NoError(t, err)

		details, err := e.projects.GetDetails(ctx, projectID)
		require.NoError(t, err)
		require.Equal(t, i+1, details.TeamCount)
		if i < len(workers)-1 {
			require.Equal(t, project.StatusOpen, details.Status)
		} else {
			require.Equal(t, project.StatusActive, details.Status)
		}
	}

	// The team is full now
	late := e.register(t, "late", 0)
	_, err := e.participants.Admit(ctx, projectID, late)
	require.ErrorIs(t, err, participant.ErrProjectFull)

	// Unanimous voting; the final vote settles
	for i, w := range workers {
		require.NoError(t, e.completion.Vote(ctx, projectID, w))

		details, err := e.projects.GetDetails(ctx, projectID)
		require.NoError(t, err)
		require.Equal(t, i+1, details.VotedCount)
	}

	details, err := e.projects.GetDetails(ctx, projectID)
	require.NoError(t, err)
	require.Equal(t, project.StatusCompleted, details.Status)
	require.True(t, details.Released)

	// 900 split three ways: 300 each
	for _, w := range workers {
		require.Equal(t, int64(300), e.balance(t, w))
	}
	require.Equal(t, int64(100), e.balance(t, owner))

	// Joining and voting are over
	_, err = e.participants.Admit(ctx, projectID, late)
	require.ErrorIs(t, err, participant.ErrProjectNotJoinable)
	err = e.completion.Vote(ctx, projectID, workers[0])
	require.ErrorIs(t, err, completion.ErrProjectNotActive)
}

func TestLifecycle_RemainderSettlement(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	owner := e.register(t, "owner", 100)
	workers := []int64{
		e.register(t, "w1", 0),
		e.register(t, "w2", 0),
		e.register(t, "w3", 0),
	}

	projectID := e.create(t, owner, 100, 3)
	for _, w := range workers {
		_, err := e.participants.Admit(ctx, projectID, w)
		require.NoError(t, err)
	}
	for _, w := range workers {
		require.NoError(t, e.completion.Vote(ctx, projectID, w))
	}

	// 100 over three members: the lowest id takes the extra cent
	require.Equal(t, int64(34), e.balance(t, workers[0]))
	require.Equal(t, int64(33), e.balance(t, workers[1]))
	require.Equal(t, int64(33), e.balance(t, workers[2]))
}

func TestLifecycle_DoubleVoteRejected(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	owner := e.register(t, "owner", 500)
	w1 := e.register(t, "w1", 0)
	w2 := e.register(t, "w2", 0)

	projectID := e.create(t, owner, 500, 2)
	_, err := e.participants.Admit(ctx, projectID, w1)
	require.NoError(t, err)
	_, err = e.participants.Admit(ctx, projectID, w2)
	require.NoError(t, err)

	require.NoError(t, e.completion.Vote(ctx, projectID, w1))
	err = e.completion.Vote(ctx, projectID, w1)
	require.ErrorIs(t, err, completion.ErrAlreadyVoted)

	// The project stays active with one vote outstanding
	details, err := e.projects.GetDetails(ctx, projectID)
	require.NoError(t, err)
	require.Equal(t, project.StatusActive, details.Status)
	require.Equal(t, 1, details.VotedCount)
}

func TestLifecycle_DoubleJoinRejected(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	owner := e.register(t, "owner", 500)
	w1 := e.register(t, "w1", 0)

	projectID := e.create(t, owner, 500, 3)
	_, err := e.participants.Admit(ctx, projectID, w1)
	require.NoError(t, err)
	_, err = e.participants.Admit(ctx, projectID, w1)
	require.ErrorIs(t, err, participant.ErrAlreadyParticipant)
}

func TestLifecycle_CancelRefundsOwner(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	owner := e.register(t, "owner", 800)
	w1 := e.register(t, "w1", 0)

	projectID := e.create(t, owner, 600, 3)
	require.Equal(t, int64(200), e.balance(t, owner))
	_, err := e.participants.Admit(ctx, projectID, w1)
	require.NoError(t, err)

	// Only the owner can cancel
	_, err = e.projects.Cancel(ctx, w1, projectID)
	require.ErrorIs(t, err, project.ErrNotOwner)

	proj, err := e.projects.Cancel(ctx, owner, projectID)
	require.NoError(t, err)
	require.Equal(t, project.StatusCancelled, proj.Status)
	require.Equal(t, int64(800), e.balance(t, owner))

	// Cancelled projects vanish from the listing and reject everything
	summaries, err := e.projects.List(ctx)
	require.NoError(t, err)
	require.Empty(t, summaries)

	_, err = e.projects.Cancel(ctx, owner, projectID)
	require.ErrorIs(t, err, project.ErrNotCancellable)
	_, err = e.participants.Admit(ctx, projectID, w1)
	require.ErrorIs(t, err, participant.ErrProjectNotJoinable)
}

func TestLifecycle_CancelAfterCompletionRejected(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	owner := e.register(t, "owner", 500)
	w1 := e.register(t, "w1", 0)

	projectID := e.create(t, owner, 500, 1)
	_, err := e.participants.Admit(ctx, projectID, w1)
	require.NoError(t, err)
	require.NoError(t, e.completion.Vote(ctx, projectID, w1))

	_, err = e.projects.Cancel(ctx, owner, projectID)
	require.ErrorIs(t, err, project.ErrNotCancellable)

	// The payout stands
	require.Equal(t, int64(500), e.balance(t, w1))
}

func TestLifecycle_InsufficientFundsCreatesNothing(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	owner := e.register(t, "owner", 100)
	_, err := e.projects.Create(ctx, project.CreateRequest{
		OwnerID:  owner,
		Name:     "Too ambitious",
		Budget:   500,
		Deadline: time.Now().Add(time.Hour),
		TeamSize: 2,
	})
	require.ErrorIs(t, err, escrow.ErrInsufficientFunds)

	require.Equal(t, int64(100), e.balance(t, owner))
	summaries, err := e.projects.List(ctx)
	require.NoError(t, err)
	require.Empty(t, summaries)
}

func TestLifecycle_SettleReconciliation(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	owner := e.register(t, "owner", 400)
	w1 := e.register(t, "w1", 0)
	w2 := e.register(t, "w2", 0)

	projectID := e.create(t, owner, 400, 2)
	for _, w := range []int64{w1, w2} {
		_, err := e.participants.Admit(ctx, projectID, w)
		require.NoError(t, err)
	}

	// Before quorum the retry path refuses to settle
	require.NoError(t, e.completion.Vote(ctx, projectID, w1))
	err := e.completion.Settle(ctx, projectID)
	require.ErrorIs(t, err, completion.ErrQuorumNotReached)

	require.NoError(t, e.completion.Vote(ctx, projectID, w2))

	// The final vote already settled; a retry sees a completed project
	err = e.completion.Settle(ctx, projectID)
	require.ErrorIs(t, err, completion.ErrProjectNotActive)
	require.Equal(t, int64(200), e.balance(t, w1))
	require.Equal(t, int64(200), e.balance(t, w2))
}

func TestLifecycle_ConcurrentJoins(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	owner := e.register(t, "owner", 600)
	projectID := e.create(t, owner, 600, 3)

	candidates := make([]int64, 8)
	for i := range candidates {
		candidates[i] = e.register(t, string(rune('a'+i)), 0)
	}

	var wg sync.WaitGroup
	admitted := make(chan int64, len(candidates))
	for _, c := range candidates {
		wg.Add(1)
		go func(memberID int64) {
			defer wg.Done()
			if _, err := e.participants.Admit(ctx, projectID, memberID); err == nil {
				admitted <- memberID
			}
		}(c)
	}
	wg.Wait()
	close(admitted)

	// Exactly the team size gets in, never more
	var winners []int64
	for w := range admitted {
		winners = append(winners, w)
	}
	require.Len(t, winners, 3)

	details, err := e.projects.GetDetails(ctx, projectID)
	require.NoError(t, err)
	require.Equal(t, 3, details.TeamCount)
	require.Equal(t, project.StatusActive, details.Status)
}

func TestLifecycle_ConcurrentVotesSettleOnce(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	owner := e.register(t, "owner", 900)
	workers := []int64{
		e.register(t, "w1", 0),
		e.register(t, "w2", 0),
		e.register(t, "w3", 0),
	}

	projectID := e.create(t, owner, 900, 3)
	for _, w := range workers {
		_, err := e.participants.Admit(ctx, projectID, w)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(memberID int64) {
			defer wg.Done()
			_ = e.completion.Vote(ctx, projectID, memberID)
		}(w)
	}
	wg.Wait()

	// One settlement, conserved funds
	details, err := e.projects.GetDetails(ctx, projectID)
	require.NoError(t, err)
	require.Equal(t, project.StatusCompleted, details.Status)

	var total int64
	for _, w := range workers {
		total += e.balance(t, w)
	}
	require.Equal(t, int64(900), total)
}
