package sqlite

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	// Each pooled connection to :memory: would get its own empty database.
	db.SetMaxOpenConns(1)

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// insertMember creates a member row with its funding account and returns the id
func insertMember(t *testing.T, db *DB, name string, balance int64) int64 {
	t.Helper()

	result, err := db.Exec(`
		INSERT INTO members (name, email, wallet_address, created_at)
		VALUES (?, ?, ?, ?)
	`, name, fmt.Sprintf("%s@example.com", name), fmt.Sprintf("0x%s", name), time.Now())
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO accounts (member_id, balance) VALUES (?, ?)`, id, balance)
	require.NoError(t, err)

	return id
}

// accountBalance reads a funding-account balance directly
func accountBalance(t *testing.T, db *DB, memberID int64) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(`SELECT balance FROM accounts WHERE member_id = ?`, memberID).Scan(&balance)
	require.NoError(t, err)
	return balance
}

// projectStatus reads a project status directly
func projectStatus(t *testing.T, db *DB, projectID int64) string {
	t.Helper()

	var status string
	err := db.QueryRow(`SELECT status FROM projects WHERE id = ?`, projectID).Scan(&status)
	require.NoError(t, err)
	return status
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	// Verify all tables were created
	tables := []string{
		"members",
		"accounts",
		"access_keys",
		"projects",
		"participants",
		"escrows",
		"transfers",
		"documents",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestAccountBalanceConstraint verifies that balances cannot go negative
func TestAccountBalanceConstraint(t *testing.T) {
	db := NewTestDB(t)
	memberID := insertMember(t, db, "alice", 100)

	_, err := db.Exec(`UPDATE accounts SET balance = balance - 200 WHERE member_id = ?`, memberID)
	require.Error(t, err, "negative balance should violate the check constraint")
}

// TestProjectStatusConstraint verifies the status check constraint
func TestProjectStatusConstraint(t *testing.T) {
	db := NewTestDB(t)
	ownerID := insertMember(t, db, "alice", 1000)

	_, err := db.Exec(`
		INSERT INTO projects (owner_id, name, budget, deadline, team_size, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ownerID, "p", 100, time.Now().Add(time.Hour), 2, "INVALID")
	require.Error(t, err, "should fail with invalid status")
}

// TestTransferKindConstraint verifies the transfer kind check constraint
func TestTransferKindConstraint(t *testing.T) {
	db := NewTestDB(t)
	memberID := insertMember(t, db, "alice", 0)

	_, err := db.Exec(`
		INSERT INTO transfers (id, project_id, member_id, kind, amount)
		VALUES (?, NULL, ?, ?, ?)
	`, "t1", memberID, "withdraw", 10)
	require.Error(t, err, "should fail with invalid kind")
}
