package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pressroom/editorial/pkg/editorial"
)

// Repository implements editorial.Repository using in-memory storage. Content
// values are immutable, so the maps hold them directly without copying.
//
// Map operations are atomic under the mutex, but check-then-act sequences
// spanning two calls are not; callers needing linearizable updates must add
// their own concurrency control.
type Repository struct {
	mu sync.RWMutex

	// live holds visible records; tombstones remembers soft-deleted ids.
	live       map[uuid.UUID]editorial.Content
	tombstones map[uuid.UUID]editorial.Content
}

// New creates a new in-memory repository
func New() editorial.Repository {
	return &Repository{
		live:       make(map[uuid.UUID]editorial.Content),
		tombstones: make(map[uuid.UUID]editorial.Content),
	}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*editorial.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.live[id]
	if !exists {
		return nil, nil
	}
	return &content, nil
}

func (r *Repository) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]editorial.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []editorial.Content
	for _, content := range r.live {
		if content.IsOwnedBy(authorID) {
			result = append(result, content)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt().After(result[j].CreatedAt())
	})

	return result, nil
}

func (r *Repository) FindPublished(ctx context.Context, query editorial.PublishedQuery) ([]editorial.Content, error) {
	state := editorial.StatePublished
	return r.Search(ctx, editorial.SearchQuery{
		AuthorID:        query.AuthorID,
		State:           &state,
		PublishedAfter:  query.PublishedAfter,
		PublishedBefore: query.PublishedBefore,
		Limit:           query.Limit,
		Offset:          query.Offset,
	})
}

func (r *Repository) FindFeatured(ctx context.Context) ([]editorial.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []editorial.Content
	for _, content := range r.live {
		if content.State().IsPublished() {
			result = append(result, content)
		}
	}

	sortByPublishedAtDesc(result)

	if len(result) > editorial.FeaturedContentLimit {
		result = result[:editorial.FeaturedContentLimit]
	}
	return result, nil
}

func (r *Repository) Search(ctx context.Context, query editorial.SearchQuery) ([]editorial.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []editorial.Content
	for _, content := range r.live {
		if matches(content, query) {
			result = append(result, content)
		}
	}

	sortByPublishedAtDesc(result)

	// Offset applies before limit
	if query.Offset != nil && *query.Offset > 0 {
		if *query.Offset >= len(result) {
			return []editorial.Content{}, nil
		}
		result = result[*query.Offset:]
	}
	if query.Limit != nil && *query.Limit > 0 && *query.Limit < len(result) {
		result = result[:*query.Limit]
	}

	return result, nil
}

func (r *Repository) Save(ctx context.Context, content editorial.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Upsert; saving over a tombstoned id reinstates the record.
	delete(r.tombstones, content.ID())
	r.live[content.ID()] = content

	return nil
}

func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	content, exists := r.live[id]
	if !exists {
		return fmt.Errorf("%w: %s", editorial.ErrNotFound, id)
	}
	if !content.State().IsPublished() {
		return fmt.Errorf("%w: only published content can be soft-deleted (state: %s)",
			editorial.ErrInvalidOperation, content.State())
	}

	delete(r.live, id)
	r.tombstones[id] = content
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	content, exists := r.live[id]
	if !exists {
		return fmt.Errorf("%w: %s", editorial.ErrNotFound, id)
	}
	if content.State().IsPublished() {
		return fmt.Errorf("%w: published content cannot be hard-deleted (state: %s)",
			editorial.ErrInvalidOperation, content.State())
	}

	delete(r.live, id)
	return nil
}

func (r *Repository) CountFeatured(ctx context.Context) (int, error) {
	featured, err := r.FindFeatured(ctx)
	if err != nil {
		return 0, err
	}
	return len(featured), nil
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.live[id]
	return exists, nil
}

func matches(content editorial.Content, query editorial.SearchQuery) bool {
	if query.AuthorID != nil && !content.IsOwnedBy(*query.AuthorID) {
		return false
	}
	if query.State != nil && content.State() != *query.State {
		return false
	}
	publishedAt := content.PublishedAt()
	if query.PublishedAfter != nil {
		if publishedAt == nil || publishedAt.Before(*query.PublishedAfter) {
			return false
		}
	}
	if query.PublishedBefore != nil {
		if publishedAt == nil || publishedAt.After(*query.PublishedBefore) {
			return false
		}
	}
	return true
}

// sortByPublishedAtDesc orders most recently published first; records without
// a publish time sort as oldest.
func sortByPublishedAtDesc(contents []editorial.Content) {
	sort.SliceStable(contents, func(i, j int) bool {
		pi, pj := contents[i].PublishedAt(), contents[j].PublishedAt()
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return pi.After(*pj)
		}
	})
}
