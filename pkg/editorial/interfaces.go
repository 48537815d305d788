package editorial

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for content. Implementations
// must uphold the delete asymmetry: published content is only soft-deletable
// and non-published content only hard-deletable.
type Repository interface {
	// FindByID returns the content, or (nil, nil) when the id is absent or
	// soft-deleted. It never fails for "not found".
	FindByID(ctx context.Context, id uuid.UUID) (*Content, error)

	// FindByAuthor returns all non-deleted content owned by the author.
	FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]Content, error)

	// FindPublished returns non-deleted published content matching the query,
	// ordered by publish time descending, offset applied before limit.
	FindPublished(ctx context.Context, query PublishedQuery) ([]Content, error)

	// FindFeatured returns at most FeaturedContentLimit of the most recently
	// published non-deleted records, publishedAt descending; records without
	// a publish time sort as oldest.
	FindFeatured(ctx context.Context) ([]Content, error)

	// Search returns non-deleted content matching any subset of the filters,
	// with the same ordering and pagination as FindPublished.
	Search(ctx context.Context, query SearchQuery) ([]Content, error)

	// Save is an idempotent upsert keyed by the content id.
	Save(ctx context.Context, content Content) error

	// SoftDelete hides a published record behind a logical tombstone. It
	// fails with ErrNotFound for absent ids and ErrInvalidOperation unless
	// the record is currently published.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Delete removes a non-published record and frees its slot. It fails
	// with ErrNotFound for absent ids and ErrInvalidOperation when the
	// record is currently published.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountFeatured returns the size of FindFeatured's result.
	CountFeatured(ctx context.Context) (int, error)

	// Exists reports whether the id is present and not deleted.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PublishedQuery filters the published listing. All fields are optional; the
// publish-date window is inclusive on both ends.
type PublishedQuery struct {
	AuthorID        *uuid.UUID
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
	Limit           *int
	Offset          *int
}

// SearchQuery filters the general listing. All fields are optional.
type SearchQuery struct {
	AuthorID        *uuid.UUID
	State           *ContentState
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
	Limit           *int
	Offset          *int
}

// SearchOption represents a functional option for building a SearchQuery.
type SearchOption func(*SearchQuery)

// NewSearchQuery builds a SearchQuery from options.
func NewSearchQuery(opts ...SearchOption) SearchQuery {
	var q SearchQuery
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// ByAuthor filters results to a single author.
func ByAuthor(authorID uuid.UUID) SearchOption {
	return func(q *SearchQuery) {
		q.AuthorID = &authorID
	}
}

// InState filters results to an exact state.
func InState(state ContentState) SearchOption {
	return func(q *SearchQuery) {
		q.State = &state
	}
}

// PublishedAfter keeps results published at or after t.
func PublishedAfter(t time.Time) SearchOption {
	return func(q *SearchQuery) {
		q.PublishedAfter = &t
	}
}

// PublishedBefore keeps results published at or before t.
func PublishedBefore(t time.Time) SearchOption {
	return func(q *SearchQuery) {
		q.PublishedBefore = &t
	}
}

// WithLimit sets the maximum number of results.
func WithLimit(limit int) SearchOption {
	return func(q *SearchQuery) {
		q.Limit = &limit
	}
}

// WithOffset sets the offset for pagination.
func WithOffset(offset int) SearchOption {
	return func(q *SearchQuery) {
		q.Offset = &offset
	}
}

// WithPagination sets both limit and offset.
func WithPagination(limit, offset int) SearchOption {
	return func(q *SearchQuery) {
		q.Limit = &limit
		q.Offset = &offset
	}
}

// EventSink defines the interface for event handling
type EventSink interface {
	// ContentCreated is fired when content is created
	ContentCreated(ctx context.Context, content *Content) error

	// ContentPublished is fired when content enters the published state
	ContentPublished(ctx context.Context, content *Content) error

	// ContentUpdated is fired when content fields or state change
	ContentUpdated(ctx context.Context, content *Content) error

	// ContentDeleted is fired when content is soft- or hard-deleted
	ContentDeleted(ctx context.Context, contentID uuid.UUID) error
}
