package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quorumworks/teampool/internal/domain/document"
	"github.com/quorumworks/teampool/internal/repository"
)

func TestDocumentRepository_PutGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	content := []byte("project brief")
	doc := &document.Document{
		Ref:       document.Ref(content),
		Name:      "brief.md",
		Content:   content,
		CreatedAt: time.Now(),
	}

	repo := NewDocumentRepository(db)
	require.NoError(t, repo.Put(ctx, doc))

	got, err := repo.Get(ctx, doc.Ref)
	require.NoError(t, err)
	require.Equal(t, doc.Ref, got.Ref)
	require.Equal(t, "brief.md", got.Name)
	require.Equal(t, content, got.Content)
}

func TestDocumentRepository_PutDuplicateRef(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	content := []byte("same bytes")
	doc := &document.Document{
		Ref:       document.Ref(content),
		Content:   content,
		CreatedAt: time.Now(),
	}

	repo := NewDocumentRepository(db)
	require.NoError(t, repo.Put(ctx, doc))
	require.ErrorIs(t, repo.Put(ctx, doc), repository.ErrConflict)
}

func TestDocumentRepository_GetUnknownRef(t *testing.T) {
	db := NewTestDB(t)

	repo := NewDocumentRepository(db)
	_, err := repo.Get(context.Background(), "deadbeef")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
