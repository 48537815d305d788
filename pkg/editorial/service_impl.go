package editorial

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	policy     Policy
	eventSink  EventSink
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error) {
	content, err := NewContent(NewContentParams{
		ID:       uuid.New(),
		AuthorID: req.AuthorID,
		Title:    req.Title,
		Body:     req.Body,
		Excerpt:  req.Excerpt,
		State:    req.State,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repository.Save(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID(), Op: "create", Err: err}
	}

	// Fire event
	if s.eventSink != nil {
		if err := s.eventSink.ContentCreated(ctx, &content); err != nil {
			slog.Error("content event sink failed", "event", "created", "content_id", content.ID(), "error", err)
		}
	}

	return &content, nil
}

func (s *service) GetContent(ctx context.Context, id uuid.UUID) (*Content, error) {
	content, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, &ContentError{ContentID: id, Op: "get", Err: err}
	}
	if content == nil {
		return nil, &ContentError{ContentID: id, Op: "get", Err: ErrNotFound}
	}
	return content, nil
}

func (s *service) PublishContent(ctx context.Context, id, userID uuid.UUID, role Role) (*Content, error) {
	return s.changeState(ctx, id, userID, role, "publish", StatePublished)
}

func (s *service) UnpublishContent(ctx context.Context, id, userID uuid.UUID, role Role) (*Content, error) {
	return s.changeState(ctx, id, userID, role, "unpublish", StateDraft)
}

func (s *service) ArchiveContent(ctx context.Context, id, userID uuid.UUID, role Role) (*Content, error) {
	return s.changeState(ctx, id, userID, role, "archive", StateArchived)
}

// changeState is the shared lookup -> authorize -> transition -> persist
// sequence behind the state-changing use cases.
func (s *service) changeState(ctx context.Context, id, userID uuid.UUID, role Role, op string, target ContentState) (*Content, error) {
	content, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, &ContentError{ContentID: id, Op: op, Err: err}
	}
	if content == nil {
		return nil, &ContentError{ContentID: id, Op: op, Err: ErrNotFound}
	}

	if !s.policy.CanPublish(*content, userID, role) {
		return nil, &ContentError{ContentID: id, Op: op, Err: ErrPermissionDenied}
	}

	updated, err := content.ChangeState(target)
	if err != nil {
		return nil, &ContentError{ContentID: id, Op: op, Err: err}
	}

	if err := s.repository.Save(ctx, updated); err != nil {
		return nil, &ContentError{ContentID: id, Op: op, Err: err}
	}

	// Fire event
	if s.eventSink != nil {
		var sinkErr error
		if target == StatePublished {
			sinkErr = s.eventSink.ContentPublished(ctx, &updated)
		} else {
			sinkErr = s.eventSink.ContentUpdated(ctx, &updated)
		}
		if sinkErr != nil {
			slog.Error("content event sink failed", "event", op, "content_id", id, "error", sinkErr)
		}
	}

	return &updated, nil
}

func (s *service) UpdateContent(ctx context.Context, req UpdateContentRequest, userID uuid.UUID, role Role) (*Content, error) {
	content, err := s.repository.FindByID(ctx, req.ID)
	if err != nil {
		return nil, &ContentError{ContentID: req.ID, Op: "update", Err: err}
	}
	if content == nil {
		return nil, &ContentError{ContentID: req.ID, Op: "update", Err: ErrNotFound}
	}

	if !s.policy.CanEdit(*content, userID, role) {
		return nil, &ContentError{ContentID: req.ID, Op: "update", Err: ErrPermissionDenied}
	}

	// Field updates apply in a fixed order; the first failure aborts the
	// whole operation before anything is persisted.
	updated := *content
	if req.Title != nil {
		if updated, err = updated.UpdateTitle(*req.Title); err != nil {
			return nil, &ContentError{ContentID: req.ID, Op: "update", Err: err}
		}
	}
	if req.Body != nil {
		if updated, err = updated.UpdateBody(*req.Body); err != nil {
			return nil, &ContentError{ContentID: req.ID, Op: "update", Err: err}
		}
	}
	if req.Excerpt != nil {
		if updated, err = updated.UpdateExcerpt(*req.Excerpt); err != nil {
			return nil, &ContentError{ContentID: req.ID, Op: "update", Err: err}
		}
	}

	if err := s.repository.Save(ctx, updated); err != nil {
		return nil, &ContentError{ContentID: req.ID, Op: "update", Err: err}
	}

	// Fire event
	if s.eventSink != nil {
		if err := s.eventSink.ContentUpdated(ctx, &updated); err != nil {
			slog.Error("content event sink failed", "event", "updated", "content_id", req.ID, "error", err)
		}
	}

	return &updated, nil
}

func (s *service) DeleteContent(ctx context.Context, id, userID uuid.UUID, role Role) error {
	content, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return &ContentError{ContentID: id, Op: "delete", Err: err}
	}
	if content == nil {
		return &ContentError{ContentID: id, Op: "delete", Err: ErrNotFound}
	}

	if !s.policy.CanDelete(*content, userID, role) {
		return &ContentError{ContentID: id, Op: "delete", Err: ErrPermissionDenied}
	}

	// Published content keeps its record behind a tombstone; everything
	// else is removed outright, mirroring the repository's own guard.
	if content.State().IsPublished() {
		err = s.repository.SoftDelete(ctx, id)
	} else {
		err = s.repository.Delete(ctx, id)
	}
	if err != nil {
		return &ContentError{ContentID: id, Op: "delete", Err: err}
	}

	if s.eventSink != nil {
		if err := s.eventSink.ContentDeleted(ctx, id); err != nil {
			slog.Error("content event sink failed", "event", "deleted", "content_id", id, "error", err)
		}
	}

	return nil
}

func (s *service) GetContentByAuthor(ctx context.Context, authorID, requestingUserID uuid.UUID, role Role) ([]Content, error) {
	if authorID != requestingUserID && role != RoleEditor && role != RoleAdmin {
		return nil, fmt.Errorf("%w: role %s cannot list another author's content", ErrPermissionDenied, role)
	}
	return s.repository.FindByAuthor(ctx, authorID)
}

func (s *service) GetPublishedContent(ctx context.Context, page, limit int) ([]Content, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidInput, page)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be >= 1, got %d", ErrInvalidInput, limit)
	}

	offset := (page - 1) * limit
	return s.repository.FindPublished(ctx, PublishedQuery{
		Limit:  &limit,
		Offset: &offset,
	})
}

func (s *service) GetFeaturedContent(ctx context.Context) ([]Content, error) {
	return s.repository.FindFeatured(ctx)
}

func (s *service) SearchContent(ctx context.Context, opts ...SearchOption) ([]Content, error) {
	return s.repository.Search(ctx, NewSearchQuery(opts...))
}

func (s *service) CanAddFeaturedContent(ctx context.Context) (bool, error) {
	count, err := s.repository.CountFeatured(ctx)
	if err != nil {
		return false, err
	}
	return count < FeaturedContentLimit, nil
}
