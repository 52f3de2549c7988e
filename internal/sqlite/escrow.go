package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/quorumworks/teampool/internal/domain/escrow"
	"github.com/quorumworks/teampool/internal/repository"
)

// EscrowRepository implements escrow, account and transfer-log persistence
// for SQLite
type EscrowRepository struct {
	db *DB
}

// NewEscrowRepository creates a new EscrowRepository
func NewEscrowRepository(db *DB) *EscrowRepository {
	return &EscrowRepository{db: db}
}

// Get retrieves the escrow for a project
func (r *EscrowRepository) Get(ctx context.Context, projectID int64) (*escrow.Escrow, error) {
	query := `
		SELECT project_id, locked_amount, released, created_at
		FROM escrows
		WHERE project_id = ?
	`

	var esc escrow.Escrow
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(
		&esc.ProjectID,
		&esc.Locked,
		&esc.Released,
		&esc.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get escrow: %w", err)
	}

	return &esc, nil
}

// Settle pays every beneficiary, records the release legs, marks the escrow
// released and completes the project, all in one transaction. A second
// call for the same project fails with ErrConflict and changes nothing.
func (r *EscrowRepository) Settle(ctx context.Context, projectID int64, shares []escrow.Share) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locked int64
	var released bool
	err = tx.QueryRowContext(ctx, `
		SELECT locked_amount, released FROM escrows WHERE project_id = ?
	`, projectID).Scan(&locked, &released)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get escrow: %w", err)
	}
	if released {
		return repository.ErrConflict
	}
	if escrow.SumShares(shares) != locked {
		return repository.ErrShareMismatch
	}

	for _, share := range shares {
		result, err := tx.ExecContext(ctx, `
			UPDATE accounts SET balance = balance + ? WHERE member_id = ?
		`, share.Amount, share.MemberID)
		if err != nil {
			return fmt.Errorf("failed to credit member %d: %w", share.MemberID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return repository.ErrNotFound
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO transfers (id, project_id, member_id, kind, amount)
			VALUES (?, ?, ?, ?, ?)
		`, uuid.NewString(), projectID, share.MemberID, escrow.TransferRelease, share.Amount)
		if err != nil {
			return fmt.Errorf("failed to log release: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE escrows SET released = 1 WHERE project_id = ? AND released = 0
	`, projectID)
	if err != nil {
		return fmt.Errorf("failed to mark escrow released: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrConflict
	}

	result, err = tx.ExecContext(ctx, `
		UPDATE projects SET status = 'COMPLETED' WHERE id = ? AND status = 'ACTIVE'
	`, projectID)
	if err != nil {
		return fmt.Errorf("failed to complete project: %w", err)
	}
	affected, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrConflict
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Refund cancels the project and returns the full locked amount to the
// owner in one transaction. The status guard makes a second refund fail
// with ErrConflict.
func (r *EscrowRepository) Refund(ctx context.Context, projectID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locked, ownerID int64
	var released bool
	err = tx.QueryRowContext(ctx, `
		SELECT e.locked_amount, e.released, p.owner_id
		FROM escrows e
		JOIN projects p ON p.id = e.project_id
		WHERE e.project_id = ?
	`, projectID).Scan(&locked, &released, &ownerID)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get escrow: %w", err)
	}
	if released {
		return repository.ErrConflict
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE projects SET status = 'CANCELLED' WHERE id = ? AND status IN ('OPEN', 'ACTIVE')
	`, projectID)
	if err != nil {
		return fmt.Errorf("failed to cancel project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrConflict
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance + ? WHERE member_id = ?
	`, locked, ownerID)
	if err != nil {
		return fmt.Errorf("failed to credit owner: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transfers (id, project_id, member_id, kind, amount)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), projectID, ownerID, escrow.TransferRefund, locked)
	if err != nil {
		return fmt.Errorf("failed to log refund: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CreditAccount adds funds to a member's account and records the leg
func (r *EscrowRepository) CreditAccount(ctx context.Context, memberID, amount int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance + ? WHERE member_id = ?
	`, amount, memberID)
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transfers (id, project_id, member_id, kind, amount)
		VALUES (?, NULL, ?, ?, ?)
	`, uuid.NewString(), memberID, escrow.TransferFund, amount)
	if err != nil {
		return fmt.Errorf("failed to log funding: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAccount retrieves a member's funding account
func (r *EscrowRepository) GetAccount(ctx context.Context, memberID int64) (*escrow.Account, error) {
	var account escrow.Account
	err := r.db.QueryRowContext(ctx, `
		SELECT member_id, balance FROM accounts WHERE member_id = ?
	`, memberID).Scan(&account.MemberID, &account.Balance)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

// ListTransfers returns all fund movement legs for a project, oldest first
func (r *EscrowRepository) ListTransfers(ctx context.Context, projectID int64) ([]escrow.Transfer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(project_id, 0), member_id, kind, amount, created_at
		FROM transfers
		WHERE project_id = ?
		ORDER BY created_at ASC, id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []escrow.Transfer
	for rows.Next() {
		var t escrow.Transfer
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.MemberID, &t.Kind, &t.Amount, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer rows: %w", err)
	}

	return transfers, nil
}
