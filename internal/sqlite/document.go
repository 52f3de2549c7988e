package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quorumworks/teampool/internal/domain/document"
	"github.com/quorumworks/teampool/internal/repository"
)

// DocumentRepository implements content-addressed document persistence for
// SQLite
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Put stores a document under its content reference
func (r *DocumentRepository) Put(ctx context.Context, doc *document.Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (ref, name, content, created_at)
		VALUES (?, ?, ?, ?)
	`, doc.Ref, doc.Name, doc.Content, doc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to store document: %w", err)
	}
	return nil
}

// Get retrieves a document by its content reference
func (r *DocumentRepository) Get(ctx context.Context, ref string) (*document.Document, error) {
	var doc document.Document
	err := r.db.QueryRowContext(ctx, `
		SELECT ref, name, content, created_at FROM documents WHERE ref = ?
	`, ref).Scan(&doc.Ref, &doc.Name, &doc.Content, &doc.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &doc, nil
}
