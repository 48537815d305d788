package editorial

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the authorization-gated command surface over the Content
// aggregate. Every use case sequences lookup, permission check, domain
// operation, persist, short-circuiting on the first failure.
type Service interface {
	// CreateContent validates and stores new content owned by the caller.
	CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error)

	// GetContent returns the content or ErrNotFound.
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)

	// PublishContent transitions the content into published.
	PublishContent(ctx context.Context, id, userID uuid.UUID, role Role) (*Content, error)

	// UnpublishContent transitions the content back to draft.
	UnpublishContent(ctx context.Context, id, userID uuid.UUID, role Role) (*Content, error)

	// ArchiveContent transitions the content into archived.
	ArchiveContent(ctx context.Context, id, userID uuid.UUID, role Role) (*Content, error)

	// UpdateContent applies the optional field updates behind a single
	// CanEdit check. Nothing is persisted unless every update succeeds.
	UpdateContent(ctx context.Context, req UpdateContentRequest, userID uuid.UUID, role Role) (*Content, error)

	// DeleteContent soft-deletes published content and hard-deletes
	// everything else, gated by CanDelete.
	DeleteContent(ctx context.Context, id, userID uuid.UUID, role Role) error

	// GetContentByAuthor lists an author's content. Self-access is always
	// allowed; cross-author access requires Editor or Admin.
	GetContentByAuthor(ctx context.Context, authorID, requestingUserID uuid.UUID, role Role) ([]Content, error)

	// GetPublishedContent returns a 1-indexed page of published content.
	GetPublishedContent(ctx context.Context, page, limit int) ([]Content, error)

	// GetFeaturedContent returns the featured listing.
	GetFeaturedContent(ctx context.Context) ([]Content, error)

	// SearchContent lists content matching the given filters.
	SearchContent(ctx context.Context, opts ...SearchOption) ([]Content, error)

	// CanAddFeaturedContent reports whether the featured listing is below
	// its cap. The cap is advisory: callers check it before creating a new
	// featured item, Save does not enforce it.
	CanAddFeaturedContent(ctx context.Context) (bool, error)
}
