package editorial

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field invariants for the Content aggregate. Lengths are counted in runes.
const (
	TitleMinLength = 5
	TitleMaxLength = 100
	BodyMinLength  = 100
	ExcerptLength  = 150
)

// FeaturedContentLimit caps how many items the featured listing surfaces.
const FeaturedContentLimit = 5

// Content is the aggregate root for a piece of editorial content. Values are
// immutable: every mutator returns a fresh instance and leaves the receiver
// untouched, and a mutator that would violate an invariant returns an error
// without producing one.
type Content struct {
	id          uuid.UUID
	authorID    uuid.UUID
	title       string
	body        string
	excerpt     string
	state       ContentState
	publishedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// NewContentParams contains parameters for creating content.
type NewContentParams struct {
	ID       uuid.UUID
	AuthorID uuid.UUID
	Title    string
	Body     string
	Excerpt  string       // optional; derived from Body when empty
	State    ContentState // optional; defaults to draft
}

// NewContent is the validated factory for the aggregate. It fails with
// ErrInvalidInput when title or body violate their length invariants.
func NewContent(params NewContentParams) (Content, error) {
	if err := validateTitle(params.Title); err != nil {
		return Content{}, err
	}
	if err := validateBody(params.Body); err != nil {
		return Content{}, err
	}

	state := params.State
	if state == "" {
		state = StateDraft
	}
	if !state.IsValid() {
		return Content{}, fmt.Errorf("%w: %q", ErrInvalidState, state)
	}

	excerpt := params.Excerpt
	if excerpt == "" {
		excerpt = deriveExcerpt(params.Body)
	}

	now := time.Now().UTC()
	c := Content{
		id:        params.ID,
		authorID:  params.AuthorID,
		title:     params.Title,
		body:      params.Body,
		excerpt:   excerpt,
		state:     state,
		createdAt: now,
		updatedAt: now,
	}
	if state == StatePublished {
		c.publishedAt = &now
	}
	return c, nil
}

func (c Content) ID() uuid.UUID       { return c.id }
func (c Content) AuthorID() uuid.UUID { return c.authorID }
func (c Content) Title() string       { return c.title }
func (c Content) Body() string        { return c.body }
func (c Content) Excerpt() string     { return c.excerpt }
func (c Content) State() ContentState { return c.state }
func (c Content) CreatedAt() time.Time { return c.createdAt }
func (c Content) UpdatedAt() time.Time { return c.updatedAt }

// PublishedAt returns the timestamp of the first transition into published,
// or nil if the content has never been published.
func (c Content) PublishedAt() *time.Time {
	if c.publishedAt == nil {
		return nil
	}
	t := *c.publishedAt
	return &t
}

// IsOwnedBy reports whether userID is the author of the content.
func (c Content) IsOwnedBy(userID uuid.UUID) bool {
	return c.authorID == userID
}

// UpdateTitle returns a copy with the new title, or ErrInvalidInput when the
// title violates its length invariant.
func (c Content) UpdateTitle(title string) (Content, error) {
	if err := validateTitle(title); err != nil {
		return Content{}, err
	}
	next := c
	next.title = title
	next.updatedAt = time.Now().UTC()
	return next, nil
}

// UpdateBody returns a copy with the new body. When the current excerpt is
// exactly the derived prefix of the old body it was never hand-edited, so it
// tracks the new body; a hand-set excerpt is preserved verbatim.
func (c Content) UpdateBody(body string) (Content, error) {
	if err := validateBody(body); err != nil {
		return Content{}, err
	}
	next := c
	if c.excerpt == deriveExcerpt(c.body) {
		next.excerpt = deriveExcerpt(body)
	}
	next.body = body
	next.updatedAt = time.Now().UTC()
	return next, nil
}

// UpdateExcerpt returns a copy with the hand-set excerpt. An empty excerpt
// reverts to the derived prefix of the current body.
func (c Content) UpdateExcerpt(excerpt string) (Content, error) {
	next := c
	if excerpt == "" {
		next.excerpt = deriveExcerpt(c.body)
	} else {
		next.excerpt = excerpt
	}
	next.updatedAt = time.Now().UTC()
	return next, nil
}

// ChangeState returns a copy in the target state. It fails with
// ErrIllegalTransition when the edge is forbidden, stamps publishedAt only on
// the first entry into published, and refreshes updatedAt on success.
func (c Content) ChangeState(target ContentState) (Content, error) {
	if !target.IsValid() {
		return Content{}, fmt.Errorf("%w: %q", ErrInvalidState, target)
	}
	if !c.state.CanTransitionTo(target) {
		return Content{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, c.state, target)
	}
	now := time.Now().UTC()
	next := c
	next.state = target
	if target == StatePublished && c.publishedAt == nil {
		next.publishedAt = &now
	}
	next.updatedAt = now
	return next, nil
}

// Publish moves the content into the published state.
func (c Content) Publish() (Content, error) {
	return c.ChangeState(StatePublished)
}

// Unpublish moves the content back to draft.
func (c Content) Unpublish() (Content, error) {
	return c.ChangeState(StateDraft)
}

// Archive moves the content into the archived state.
func (c Content) Archive() (Content, error) {
	return c.ChangeState(StateArchived)
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < TitleMinLength || n > TitleMaxLength {
		return fmt.Errorf("%w: title must be %d-%d characters, got %d",
			ErrInvalidInput, TitleMinLength, TitleMaxLength, n)
	}
	return nil
}

func validateBody(body string) error {
	n := utf8.RuneCountInString(body)
	if n < BodyMinLength {
		return fmt.Errorf("%w: body must be at least %d characters, got %d",
			ErrInvalidInput, BodyMinLength, n)
	}
	return nil
}

// deriveExcerpt returns the excerpt a body produces when none is supplied.
func deriveExcerpt(body string) string {
	runes := []rune(body)
	if len(runes) <= ExcerptLength {
		return body
	}
	return string(runes[:ExcerptLength])
}

// Snapshot is the persistence-facing view of a Content. Repositories store
// and rehydrate aggregates through it without access to the unexported
// fields.
type Snapshot struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Title       string
	Body        string
	Excerpt     string
	State       ContentState
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot returns the persistence-facing view of the content.
func (c Content) Snapshot() Snapshot {
	return Snapshot{
		ID:          c.id,
		AuthorID:    c.authorID,
		Title:       c.title,
		Body:        c.body,
		Excerpt:     c.excerpt,
		State:       c.state,
		PublishedAt: c.PublishedAt(),
		CreatedAt:   c.createdAt,
		UpdatedAt:   c.updatedAt,
	}
}

// FromSnapshot rehydrates an aggregate from stored data. The snapshot is
// trusted to have passed validation when it was written; no invariants are
// re-checked here.
func FromSnapshot(s Snapshot) Content {
	var publishedAt *time.Time
	if s.PublishedAt != nil {
		t := *s.PublishedAt
		publishedAt = &t
	}
	return Content{
		id:          s.ID,
		authorID:    s.AuthorID,
		title:       s.Title,
		body:        s.Body,
		excerpt:     s.Excerpt,
		state:       s.State,
		publishedAt: publishedAt,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
	}
}
