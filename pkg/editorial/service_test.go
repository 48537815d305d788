package editorial_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressroom/editorial/pkg/editorial"
	"github.com/pressroom/editorial/pkg/editorial/repo/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []editorial.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []editorial.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []editorial.Option{
				editorial.WithRepository(memory.New()),
			},
			expectError: false,
		},
		{
			name: "with repository and event sink should succeed",
			options: []editorial.Option{
				editorial.WithRepository(memory.New()),
				editorial.WithEventSink(editorial.NewNoopEventSink()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := editorial.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T) editorial.Service {
	t.Helper()

	svc, err := editorial.New(
		editorial.WithRepository(memory.New()),
		editorial.WithEventSink(editorial.NewNoopEventSink()),
	)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc
}

func createTestContent(t *testing.T, svc editorial.Service, authorID uuid.UUID) *editorial.Content {
	t.Helper()

	content, err := svc.CreateContent(context.Background(), editorial.CreateContentRequest{
		AuthorID: authorID,
		Title:    "Test Content",
		Body:     strings.Repeat("x", 120),
	})
	require.NoError(t, err)
	return content
}

func TestCreateContent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("valid content", func(t *testing.T) {
		authorID := uuid.New()
		content, err := svc.CreateContent(ctx, editorial.CreateContentRequest{
			AuthorID: authorID,
			Title:    "Test Content",
			Body:     strings.Repeat("x", 120),
		})
		require.NoError(t, err)
		assert.Equal(t, authorID, content.AuthorID())
		assert.Equal(t, editorial.StateDraft, content.State())
		assert.Equal(t, strings.Repeat("x", 120), content.Excerpt())

		retrieved, err := svc.GetContent(ctx, content.ID())
		require.NoError(t, err)
		assert.Equal(t, content.ID(), retrieved.ID())
	})

	t.Run("invalid title", func(t *testing.T) {
		_, err := svc.CreateContent(ctx, editorial.CreateContentRequest{
			AuthorID: uuid.New(),
			Title:    "tiny",
			Body:     strings.Repeat("x", 120),
		})
		assert.ErrorIs(t, err, editorial.ErrInvalidInput)
	})

	t.Run("invalid body", func(t *testing.T) {
		_, err := svc.CreateContent(ctx, editorial.CreateContentRequest{
			AuthorID: uuid.New(),
			Title:    "Test Content",
			Body:     "too short",
		})
		assert.ErrorIs(t, err, editorial.ErrInvalidInput)
	})
}

func TestPublishContent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("owning author can publish", func(t *testing.T) {
		authorID := uuid.New()
		content := createTestContent(t, svc, authorID)

		published, err := svc.PublishContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		require.NoError(t, err)
		assert.Equal(t, editorial.StatePublished, published.State())
		assert.NotNil(t, published.PublishedAt())
	})

	t.Run("other author is denied", func(t *testing.T) {
		content := createTestContent(t, svc, uuid.New())

		_, err := svc.PublishContent(ctx, content.ID(), uuid.New(), editorial.RoleAuthor)
		assert.ErrorIs(t, err, editorial.ErrPermissionDenied)

		// Still a draft.
		retrieved, err := svc.GetContent(ctx, content.ID())
		require.NoError(t, err)
		assert.Equal(t, editorial.StateDraft, retrieved.State())
	})

	t.Run("editor can publish someone else's content", func(t *testing.T) {
		content := createTestContent(t, svc, uuid.New())

		published, err := svc.PublishContent(ctx, content.ID(), uuid.New(), editorial.RoleEditor)
		require.NoError(t, err)
		assert.Equal(t, editorial.StatePublished, published.State())
	})

	t.Run("missing content", func(t *testing.T) {
		_, err := svc.PublishContent(ctx, uuid.New(), uuid.New(), editorial.RoleAdmin)
		assert.ErrorIs(t, err, editorial.ErrNotFound)
	})

	t.Run("archived content cannot be published", func(t *testing.T) {
		authorID := uuid.New()
		content := createTestContent(t, svc, authorID)

		_, err := svc.ArchiveContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		require.NoError(t, err)

		_, err = svc.PublishContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		assert.ErrorIs(t, err, editorial.ErrIllegalTransition)
	})

	t.Run("republish keeps the original publish time", func(t *testing.T) {
		authorID := uuid.New()
		content := createTestContent(t, svc, authorID)

		published, err := svc.PublishContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		require.NoError(t, err)
		firstPublishedAt := published.PublishedAt()

		_, err = svc.UnpublishContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		require.NoError(t, err)

		republished, err := svc.PublishContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		require.NoError(t, err)
		assert.Equal(t, firstPublishedAt, republished.PublishedAt())
	})
}

func TestUpdateContent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("updates apply in order", func(t *testing.T) {
		authorID := uuid.New()
		content := createTestContent(t, svc, authorID)

		title := "A fresh new title"
		body := strings.Repeat("y", 180)
		excerpt := "hand-set excerpt"

		updated, err := svc.UpdateContent(ctx, editorial.UpdateContentRequest{
			ID:      content.ID(),
			Title:   &title,
			Body:    &body,
			Excerpt: &excerpt,
		}, authorID, editorial.RoleAuthor)
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title())
		assert.Equal(t, body, updated.Body())
		assert.Equal(t, excerpt, updated.Excerpt())
	})

	t.Run("first failing field aborts without persisting", func(t *testing.T) {
		authorID := uuid.New()
		content := createTestContent(t, svc, authorID)

		title := "This title would be fine"
		badBody := "way too short"

		_, err := svc.UpdateContent(ctx, editorial.UpdateContentRequest{
			ID:    content.ID(),
			Title: &title,
			Body:  &badBody,
		}, authorID, editorial.RoleAuthor)
		assert.ErrorIs(t, err, editorial.ErrInvalidInput)

		// The valid title update preceding the failure was not persisted.
		retrieved, err := svc.GetContent(ctx, content.ID())
		require.NoError(t, err)
		assert.Equal(t, "Test Content", retrieved.Title())
	})

	t.Run("non-owner author is denied", func(t *testing.T) {
		content := createTestContent(t, svc, uuid.New())

		title := "Someone else's title"
		_, err := svc.UpdateContent(ctx, editorial.UpdateContentRequest{
			ID:    content.ID(),
			Title: &title,
		}, uuid.New(), editorial.RoleAuthor)
		assert.ErrorIs(t, err, editorial.ErrPermissionDenied)
	})

	t.Run("missing content", func(t *testing.T) {
		title := "No such content"
		_, err := svc.UpdateContent(ctx, editorial.UpdateContentRequest{
			ID:    uuid.New(),
			Title: &title,
		}, uuid.New(), editorial.RoleAdmin)
		assert.ErrorIs(t, err, editorial.ErrNotFound)
	})
}

func TestDeleteContent(t *testing.T) {
	ctx := context.Background()

	t.Run("draft is hard-deleted", func(t *testing.T) {
		svc := setupTestService(t)
		authorID := uuid.New()
		content := createTestContent(t, svc, authorID)

		err := svc.DeleteContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		require.NoError(t, err)

		_, err = svc.GetContent(ctx, content.ID())
		assert.ErrorIs(t, err, editorial.ErrNotFound)
	})

	t.Run("published is soft-deleted by admin", func(t *testing.T) {
		svc := setupTestService(t)
		authorID := uuid.New()
		content := createTestContent(t, svc, authorID)

		_, err := svc.PublishContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		require.NoError(t, err)

		err = svc.DeleteContent(ctx, content.ID(), uuid.New(), editorial.RoleAdmin)
		require.NoError(t, err)

		_, err = svc.GetContent(ctx, content.ID())
		assert.ErrorIs(t, err, editorial.ErrNotFound)
	})

	t.Run("author cannot delete own published content", func(t *testing.T) {
		svc := setupTestService(t)
		authorID := uuid.New()
		content := createTestContent(t, svc, authorID)

		_, err := svc.PublishContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		require.NoError(t, err)

		err = svc.DeleteContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		assert.ErrorIs(t, err, editorial.ErrPermissionDenied)
	})

	t.Run("editor cannot delete published content", func(t *testing.T) {
		svc := setupTestService(t)
		authorID := uuid.New()
		content := createTestContent(t, svc, authorID)

		_, err := svc.PublishContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		require.NoError(t, err)

		err = svc.DeleteContent(ctx, content.ID(), uuid.New(), editorial.RoleEditor)
		assert.ErrorIs(t, err, editorial.ErrPermissionDenied)
	})

	t.Run("missing content", func(t *testing.T) {
		svc := setupTestService(t)
		err := svc.DeleteContent(ctx, uuid.New(), uuid.New(), editorial.RoleAdmin)
		assert.ErrorIs(t, err, editorial.ErrNotFound)
	})
}

func TestGetContentByAuthor(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	authorID := uuid.New()
	createTestContent(t, svc, authorID)
	createTestContent(t, svc, authorID)
	createTestContent(t, svc, uuid.New())

	t.Run("self-access is always allowed", func(t *testing.T) {
		contents, err := svc.GetContentByAuthor(ctx, authorID, authorID, editorial.RoleAuthor)
		require.NoError(t, err)
		assert.Len(t, contents, 2)
	})

	t.Run("cross-author access requires editor or admin", func(t *testing.T) {
		_, err := svc.GetContentByAuthor(ctx, authorID, uuid.New(), editorial.RoleAuthor)
		assert.ErrorIs(t, err, editorial.ErrPermissionDenied)

		contents, err := svc.GetContentByAuthor(ctx, authorID, uuid.New(), editorial.RoleEditor)
		require.NoError(t, err)
		assert.Len(t, contents, 2)

		contents, err = svc.GetContentByAuthor(ctx, authorID, uuid.New(), editorial.RoleAdmin)
		require.NoError(t, err)
		assert.Len(t, contents, 2)
	})
}

func TestGetPublishedContent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	authorID := uuid.New()
	for i := 0; i < 5; i++ {
		content, err := svc.CreateContent(ctx, editorial.CreateContentRequest{
			AuthorID: authorID,
			Title:    fmt.Sprintf("Published piece %d", i),
			Body:     strings.Repeat("x", 120),
		})
		require.NoError(t, err)
		_, err = svc.PublishContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		require.NoError(t, err)
	}
	// One draft that must never show up.
	createTestContent(t, svc, authorID)

	t.Run("pages are 1-indexed", func(t *testing.T) {
		page1, err := svc.GetPublishedContent(ctx, 1, 2)
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		page2, err := svc.GetPublishedContent(ctx, 2, 2)
		require.NoError(t, err)
		assert.Len(t, page2, 2)
		assert.NotEqual(t, page1[0].ID(), page2[0].ID())

		page3, err := svc.GetPublishedContent(ctx, 3, 2)
		require.NoError(t, err)
		assert.Len(t, page3, 1)
	})

	t.Run("invalid page or limit", func(t *testing.T) {
		_, err := svc.GetPublishedContent(ctx, 0, 10)
		assert.ErrorIs(t, err, editorial.ErrInvalidInput)

		_, err = svc.GetPublishedContent(ctx, 1, 0)
		assert.ErrorIs(t, err, editorial.ErrInvalidInput)
	})
}

func TestCanAddFeaturedContent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	ok, err := svc.CanAddFeaturedContent(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	authorID := uuid.New()
	for i := 0; i < editorial.FeaturedContentLimit; i++ {
		content, err := svc.CreateContent(ctx, editorial.CreateContentRequest{
			AuthorID: authorID,
			Title:    fmt.Sprintf("Featured piece %d", i),
			Body:     strings.Repeat("x", 120),
		})
		require.NoError(t, err)
		_, err = svc.PublishContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
		require.NoError(t, err)
	}

	ok, err = svc.CanAddFeaturedContent(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchContent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	authorID := uuid.New()
	content := createTestContent(t, svc, authorID)
	_, err := svc.PublishContent(ctx, content.ID(), authorID, editorial.RoleAuthor)
	require.NoError(t, err)
	createTestContent(t, svc, uuid.New())

	results, err := svc.SearchContent(ctx,
		editorial.ByAuthor(authorID),
		editorial.InState(editorial.StatePublished),
	)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, content.ID(), results[0].ID())

	results, err = svc.SearchContent(ctx, editorial.InState(editorial.StateDraft))
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
