package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quorumworks/teampool/internal/domain/project"
	"github.com/quorumworks/teampool/internal/repository"
)

func newProject(ownerID int64, budget int64, teamSize int) *project.Project {
	return &project.Project{
		OwnerID:   ownerID,
		Name:      "Test Project",
		Budget:    budget,
		Deadline:  time.Now().Add(24 * time.Hour),
		TeamSize:  teamSize,
		Status:    project.StatusOpen,
		CreatedAt: time.Now(),
	}
}

// createProject inserts a project through the repository and returns its id
func createProject(t *testing.T, db *DB, ownerID int64, budget int64, teamSize int) int64 {
	t.Helper()

	repo := NewProjectRepository(db)
	id, err := repo.Create(context.Background(), newProject(ownerID, budget, teamSize))
	require.NoError(t, err)
	return id
}

func TestProjectRepository_CreateEscrowsBudget(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	ownerID := insertMember(t, db, "alice", 1000)

	repo := NewProjectRepository(db)
	id, err := repo.Create(ctx, newProject(ownerID, 600, 3))
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	// Owner's account was debited
	require.Equal(t, int64(400), accountBalance(t, db, ownerID))

	// Escrow row locks the budget
	var locked int64
	var released bool
	err = db.QueryRow(`SELECT locked_amount, released FROM escrows WHERE project_id = ?`, id).Scan(&locked, &released)
	require.NoError(t, err)
	require.Equal(t, int64(600), locked)
	require.False(t, released)

	// Deposit leg was recorded
	var kind string
	var amount int64
	err = db.QueryRow(`SELECT kind, amount FROM transfers WHERE project_id = ?`, id).Scan(&kind, &amount)
	require.NoError(t, err)
	require.Equal(t, "deposit", kind)
	require.Equal(t, int64(600), amount)
}

func TestProjectRepository_CreateInsufficientFunds(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	ownerID := insertMember(t, db, "alice", 100)

	repo := NewProjectRepository(db)
	_, err := repo.Create(ctx, newProject(ownerID, 600, 3))
	require.ErrorIs(t, err, repository.ErrInsufficientFunds)

	// Nothing committed: balance untouched, no project row
	require.Equal(t, int64(100), accountBalance(t, db, ownerID))
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&count))
	require.Equal(t, 0, count)
}

func TestProjectRepository_CreateUnknownOwner(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewProjectRepository(db)
	_, err := repo.Create(ctx, newProject(999, 600, 3))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_Get(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	ownerID := insertMember(t, db, "alice", 1000)
	id := createProject(t, db, ownerID, 600, 3)

	repo := NewProjectRepository(db)
	proj, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, proj.ID)
	require.Equal(t, ownerID, proj.OwnerID)
	require.Equal(t, "Test Project", proj.Name)
	require.Equal(t, int64(600), proj.Budget)
	require.Equal(t, 3, proj.TeamSize)
	require.Equal(t, project.StatusOpen, proj.Status)

	_, err = repo.Get(ctx, 999)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_GetDetails(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	ownerID := insertMember(t, db, "alice", 1000)
	memberID := insertMember(t, db, "bob", 0)
	id := createProject(t, db, ownerID, 600, 3)

	_, err := db.Exec(`
		INSERT INTO participants (project_id, member_id, voted, active) VALUES (?, ?, 1, 1)
	`, id, memberID)
	require.NoError(t, err)

	repo := NewProjectRepository(db)
	details, err := repo.GetDetails(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, details.ID)
	require.Equal(t, 1, details.TeamCount)
	require.Equal(t, 1, details.VotedCount)
	require.Equal(t, int64(600), details.Locked)
	require.False(t, details.Released)
}

func TestProjectRepository_ListExcludesCancelled(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	ownerID := insertMember(t, db, "alice", 2000)

	id1 := createProject(t, db, ownerID, 500, 2)
	id2 := createProject(t, db, ownerID, 500, 2)
	_, err := db.Exec(`UPDATE projects SET status = 'CANCELLED' WHERE id = ?`, id2)
	require.NoError(t, err)

	repo := NewProjectRepository(db)
	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, id1, summaries[0].ID)
	require.Equal(t, "alice", summaries[0].OwnerName)
	require.Equal(t, 0, summaries[0].TeamCount)
}

func TestProjectRepository_ListCountsActiveParticipants(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	ownerID := insertMember(t, db, "alice", 1000)
	bobID := insertMember(t, db, "bob", 0)
	carolID := insertMember(t, db, "carol", 0)
	id := createProject(t, db, ownerID, 600, 3)

	for _, m := range []int64{bobID, carolID} {
		_, err := db.Exec(`INSERT INTO participants (project_id, member_id) VALUES (?, ?)`, id, m)
		require.NoError(t, err)
	}

	repo := NewProjectRepository(db)
	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, 2, summaries[0].TeamCount)
}
