package editorial

import "github.com/google/uuid"

// Request DTOs

// CreateContentRequest contains parameters for creating new content. Excerpt
// and State are optional; see NewContentParams for their defaults.
type CreateContentRequest struct {
	AuthorID uuid.UUID
	Title    string
	Body     string
	Excerpt  string
	State    ContentState
}

// UpdateContentRequest contains the optional field updates for existing
// content. Updates apply in the fixed order title, body, excerpt; the first
// failing update aborts the whole operation before anything is persisted.
type UpdateContentRequest struct {
	ID      uuid.UUID
	Title   *string
	Body    *string
	Excerpt *string
}
