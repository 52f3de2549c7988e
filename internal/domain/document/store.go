// Package document is a content-addressed byte store. Callers hand it raw
// bytes and get back an opaque reference; the engine stores only references
// and never interprets document contents.
package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quorumworks/teampool/internal/repository"
)

var (
	// ErrNotFound indicates no document exists for the reference.
	ErrNotFound = errors.New("document not found")
	// ErrEmptyContent indicates an empty upload.
	ErrEmptyContent = errors.New("document content is empty")
)

// Document is stored content plus its reference.
type Document struct {
	Ref       string    `json:"ref"`
	Name      string    `json:"name,omitempty"`
	Content   []byte    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository provides persistence for documents.
type Repository interface {
	Put(ctx context.Context, doc *Document) error
	Get(ctx context.Context, ref string) (*Document, error)
}

// Store hands out content references. Put is idempotent per content: the
// same bytes always map to the same reference.
type Store struct {
	repo   Repository
	logger *slog.Logger
}

// NewStore creates a new document store.
func NewStore(repo Repository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{repo: repo, logger: logger}
}

// Put stores content and returns its reference.
func (s *Store) Put(ctx context.Context, name string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", ErrEmptyContent
	}

	ref := Ref(content)
	doc := &Document{
		Ref:       ref,
		Name:      name,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Put(ctx, doc); err != nil {
		// Same content already stored under the same ref.
		if errors.Is(err, repository.ErrConflict) {
			return ref, nil
		}
		return "", fmt.Errorf("storing document: %w", err)
	}

	s.logger.Info("document stored", "ref", ref, "bytes", len(content))
	return ref, nil
}

// Get returns the content for a reference.
func (s *Store) Get(ctx context.Context, ref string) (*Document, error) {
	doc, err := s.repo.Get(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return doc, nil
}

// Ref computes the content reference for a byte slice.
func Ref(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
