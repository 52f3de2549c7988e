package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/quorumworks/teampool/internal/domain/escrow"
	"github.com/quorumworks/teampool/internal/domain/project"
	"github.com/quorumworks/teampool/internal/repository"
)

// ProjectRepository implements project persistence for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts the project, debits the owner's funding account and opens
// the escrow in a single transaction. If the funds cannot be locked, no
// project row survives.
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := debitAccount(ctx, tx, proj.OwnerID, proj.Budget); err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO projects (owner_id, name, description, budget, deadline, team_size, status, document_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		proj.OwnerID,
		proj.Name,
		proj.Description,
		proj.Budget,
		proj.Deadline,
		proj.TeamSize,
		proj.Status,
		proj.DocumentRef,
		proj.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get project id: %w", err)
	}

	if err := openEscrow(ctx, tx, id, proj.OwnerID, proj.Budget); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// openEscrow locks amount against projectID and records the deposit leg.
// Runs inside the caller's transaction.
func openEscrow(ctx context.Context, tx *sql.Tx, projectID, ownerID, amount int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO escrows (project_id, locked_amount, released)
		VALUES (?, ?, 0)
	`, projectID, amount)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to open escrow: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transfers (id, project_id, member_id, kind, amount)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), projectID, ownerID, escrow.TransferDeposit, amount)
	if err != nil {
		return fmt.Errorf("failed to log deposit: %w", err)
	}

	return nil
}

// debitAccount withdraws amount from a funding account, failing on missing
// account or insufficient balance. Runs inside the caller's transaction.
func debitAccount(ctx context.Context, tx *sql.Tx, memberID, amount int64) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance - ?
		WHERE member_id = ? AND balance >= ?
	`, amount, memberID, amount)
	if err != nil {
		return fmt.Errorf("failed to debit account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		var balance int64
		err := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE member_id = ?`, memberID).Scan(&balance)
		if err == sql.ErrNoRows {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check balance: %w", err)
		}
		return repository.ErrInsufficientFunds
	}

	return nil
}

// Get retrieves a project by id
func (r *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	query := `
		SELECT id, owner_id, name, description, budget, deadline, team_size, status, document_ref, created_at
		FROM projects
		WHERE id = ?
	`

	var proj project.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.OwnerID,
		&proj.Name,
		&proj.Description,
		&proj.Budget,
		&proj.Deadline,
		&proj.TeamSize,
		&proj.Status,
		&proj.DocumentRef,
		&proj.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &proj, nil
}

// GetDetails retrieves a project snapshot with team, vote and escrow state
func (r *ProjectRepository) GetDetails(ctx context.Context, id int64) (*project.Details, error) {
	query := `
		SELECT
			p.id, p.owner_id, p.name, p.description, p.budget, p.deadline,
			p.team_size, p.status, p.document_ref, p.created_at,
			(SELECT COUNT(*) FROM participants WHERE project_id = p.id AND active = 1) AS team_count,
			(SELECT COUNT(*) FROM participants WHERE project_id = p.id AND voted = 1) AS voted_count,
			COALESCE(e.locked_amount, 0) AS locked_amount,
			COALESCE(e.released, 0) AS released
		FROM projects p
		LEFT JOIN escrows e ON e.project_id = p.id
		WHERE p.id = ?
	`

	var details project.Details
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&details.ID,
		&details.OwnerID,
		&details.Name,
		&details.Description,
		&details.Budget,
		&details.Deadline,
		&details.TeamSize,
		&details.Status,
		&details.DocumentRef,
		&details.CreatedAt,
		&details.TeamCount,
		&details.VotedCount,
		&details.Locked,
		&details.Released,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project details: %w", err)
	}

	return &details, nil
}

// List returns summaries of all non-cancelled projects, newest first
func (r *ProjectRepository) List(ctx context.Context) ([]project.Summary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			COALESCE(m.name, '') AS owner_name,
			p.budget,
			p.deadline,
			p.team_size,
			COUNT(pt.member_id) AS team_count,
			p.status,
			p.created_at
		FROM projects p
		LEFT JOIN members m ON m.id = p.owner_id
		LEFT JOIN participants pt ON pt.project_id = p.id AND pt.active = 1
		WHERE p.status != 'CANCELLED'
		GROUP BY p.id, p.name, m.name, p.budget, p.deadline, p.team_size, p.status, p.created_at
		ORDER BY p.created_at DESC, p.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.Summary
	for rows.Next() {
		var summary project.Summary
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.OwnerName,
			&summary.Budget,
			&summary.Deadline,
			&summary.TeamSize,
			&summary.TeamCount,
			&summary.Status,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}
