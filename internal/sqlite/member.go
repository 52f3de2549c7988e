package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quorumworks/teampool/internal/domain/member"
	"github.com/quorumworks/teampool/internal/repository"
)

// MemberRepository implements member persistence for SQLite
type MemberRepository struct {
	db *DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create inserts the member, an empty funding account and the access-key
// hash in one transaction.
func (r *MemberRepository) Create(ctx context.Context, m *member.Member, keyHash string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO members (name, email, wallet_address, created_at)
		VALUES (?, ?, ?, ?)
	`, m.Name, m.Email, m.WalletAddress, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrConflict
		}
		return 0, fmt.Errorf("failed to create member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get member id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (member_id, balance) VALUES (?, 0)
	`, id); err != nil {
		return 0, fmt.Errorf("failed to create account: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO access_keys (key_hash, member_id) VALUES (?, ?)
	`, keyHash, id); err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrConflict
		}
		return 0, fmt.Errorf("failed to store access key: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// Get retrieves a member by id
func (r *MemberRepository) Get(ctx context.Context, id int64) (*member.Member, error) {
	var m member.Member
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, wallet_address, created_at
		FROM members
		WHERE id = ?
	`, id).Scan(&m.ID, &m.Name, &m.Email, &m.WalletAddress, &m.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return &m, nil
}

// ResolveKey returns the member id an access-key hash belongs to
func (r *MemberRepository) ResolveKey(ctx context.Context, keyHash string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		SELECT member_id FROM access_keys WHERE key_hash = ?
	`, keyHash).Scan(&id)

	if err == sql.ErrNoRows {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve key: %w", err)
	}

	return id, nil
}
