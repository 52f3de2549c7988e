package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quorumworks/teampool/internal/domain/participant"
	"github.com/quorumworks/teampool/internal/repository"
)

// ParticipantRepository implements participant persistence for SQLite
type ParticipantRepository struct {
	db *DB
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Admit inserts a participant row and, when the admission fills the team,
// flips the project from OPEN to ACTIVE in the same transaction. Returns
// whether the team is now full.
func (r *ParticipantRepository) Admit(ctx context.Context, p *participant.Participant, teamSize int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO participants (project_id, member_id, joined_at, voted, active)
		VALUES (?, ?, ?, 0, 1)
	`, p.ProjectID, p.MemberID, p.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return false, repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return false, repository.ErrForeignKeyViolation
		}
		return false, fmt.Errorf("failed to admit participant: %w", err)
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM participants WHERE project_id = ? AND active = 1
	`, p.ProjectID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count participants: %w", err)
	}

	teamFull := count == teamSize
	if teamFull {
		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET status = 'ACTIVE' WHERE id = ? AND status = 'OPEN'
		`, p.ProjectID)
		if err != nil {
			return false, fmt.Errorf("failed to activate project: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return teamFull, nil
}

// Get retrieves one participant row
func (r *ParticipantRepository) Get(ctx context.Context, projectID, memberID int64) (*participant.Participant, error) {
	query := `
		SELECT project_id, member_id, joined_at, voted, active
		FROM participants
		WHERE project_id = ? AND member_id = ?
	`

	var p participant.Participant
	var voted bool
	err := r.db.QueryRowContext(ctx, query, projectID, memberID).Scan(
		&p.ProjectID,
		&p.MemberID,
		&p.JoinedAt,
		&voted,
		&p.Active,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	p.Vote = participant.NotVoted
	if voted {
		p.Vote = participant.VotedComplete
	}
	return &p, nil
}

// List returns all participants of a project in ascending member-id order
func (r *ParticipantRepository) List(ctx context.Context, projectID int64) ([]participant.Participant, error) {
	query := `
		SELECT project_id, member_id, joined_at, voted, active
		FROM participants
		WHERE project_id = ?
		ORDER BY member_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []participant.Participant
	for rows.Next() {
		var p participant.Participant
		var voted bool
		if err := rows.Scan(&p.ProjectID, &p.MemberID, &p.JoinedAt, &voted, &p.Active); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Vote = participant.NotVoted
		if voted {
			p.Vote = participant.VotedComplete
		}
		participants = append(participants, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}

	return participants, nil
}

// CountActive returns the number of admitted active participants
func (r *ParticipantRepository) CountActive(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM participants WHERE project_id = ? AND active = 1
	`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active participants: %w", err)
	}
	return count, nil
}

// CountVoted returns the number of participants who voted for completion
func (r *ParticipantRepository) CountVoted(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM participants WHERE project_id = ? AND voted = 1
	`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// MarkVoted flips a participant's vote flag exactly once
func (r *ParticipantRepository) MarkVoted(ctx context.Context, projectID, memberID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE participants SET voted = 1
		WHERE project_id = ? AND member_id = ? AND voted = 0
	`, projectID, memberID)
	if err != nil {
		return fmt.Errorf("failed to mark vote: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `
			SELECT 1 FROM participants WHERE project_id = ? AND member_id = ?
		`, projectID, memberID).Scan(&exists)
		if err == sql.ErrNoRows {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check participant: %w", err)
		}
		return repository.ErrConflict
	}

	return nil
}
