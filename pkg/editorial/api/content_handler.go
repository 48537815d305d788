package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/pressroom/editorial/pkg/editorial"
)

// ContentHandler handles HTTP requests for editorial content
type ContentHandler struct {
	service editorial.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(service editorial.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// Routes returns the routes for content. Reads of published and featured
// content are public; everything else requires a resolved caller identity.
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/published", h.ListPublished)
	r.Get("/featured", h.ListFeatured)

	r.Group(func(r chi.Router) {
		r.Use(RequireIdentity)

		r.Post("/", h.CreateContent)
		r.Get("/search", h.SearchContent)
		r.Get("/{id}", h.GetContent)
		r.Patch("/{id}", h.UpdateContent)
		r.Delete("/{id}", h.DeleteContent)
		r.Post("/{id}/publish", h.PublishContent)
		r.Post("/{id}/unpublish", h.UnpublishContent)
		r.Post("/{id}/archive", h.ArchiveContent)
		r.Get("/authors/{authorID}", h.ListByAuthor)
	})

	return r
}

// CreateContentRequest is the request body for creating content
type CreateContentRequest struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Excerpt string `json:"excerpt,omitempty"`
	State   string `json:"state,omitempty"`
}

// UpdateContentRequest is the request body for updating content fields
type UpdateContentRequest struct {
	Title   *string `json:"title,omitempty"`
	Body    *string `json:"body,omitempty"`
	Excerpt *string `json:"excerpt,omitempty"`
}

// ContentResponse is the response body for a content
type ContentResponse struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"author_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Excerpt     string     `json:"excerpt"`
	State       string     `json:"state"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toContentResponse(c *editorial.Content) ContentResponse {
	return ContentResponse{
		ID:          c.ID().String(),
		AuthorID:    c.AuthorID().String(),
		Title:       c.Title(),
		Body:        c.Body(),
		Excerpt:     c.Excerpt(),
		State:       c.State().String(),
		PublishedAt: c.PublishedAt(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

func toContentResponses(contents []editorial.Content) []ContentResponse {
	result := make([]ContentResponse, 0, len(contents))
	for i := range contents {
		result = append(result, toContentResponse(&contents[i]))
	}
	return result
}

// CreateContent creates new content owned by the caller
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := editorial.ContentState("")
	if req.State != "" {
		parsed, err := editorial.ParseContentState(req.State)
		if err != nil {
			renderError(w, r, err)
			return
		}
		state = parsed
	}

	content, err := h.service.CreateContent(r.Context(), editorial.CreateContentRequest{
		AuthorID: identity.UserID,
		Title:    req.Title,
		Body:     req.Body,
		Excerpt:  req.Excerpt,
		State:    state,
	})
	if err != nil {
		slog.Error("failed to create content", "author_id", identity.UserID, "error", err)
		renderError(w, r, err)
		return
	}

	slog.Info("content created", "content_id", content.ID(), "author_id", identity.UserID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toContentResponse(content))
}

// GetContent retrieves a content by ID
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid content ID", http.StatusBadRequest)
		return
	}

	content, err := h.service.GetContent(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, toContentResponse(content))
}

// UpdateContent applies partial field updates to a content
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid content ID", http.StatusBadRequest)
		return
	}

	var req UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := h.service.UpdateContent(r.Context(), editorial.UpdateContentRequest{
		ID:      id,
		Title:   req.Title,
		Body:    req.Body,
		Excerpt: req.Excerpt,
	}, identity.UserID, identity.Role)
	if err != nil {
		slog.Error("failed to update content", "content_id", id, "error", err)
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, toContentResponse(content))
}

// DeleteContent soft- or hard-deletes a content depending on its state
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid content ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteContent(r.Context(), id, identity.UserID, identity.Role); err != nil {
		slog.Error("failed to delete content", "content_id", id, "error", err)
		renderError(w, r, err)
		return
	}

	slog.Info("content deleted", "content_id", id, "user_id", identity.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// PublishContent transitions a content into the published state
func (h *ContentHandler) PublishContent(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "publish", h.service.PublishContent)
}

// UnpublishContent transitions a content back to draft
func (h *ContentHandler) UnpublishContent(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "unpublish", h.service.UnpublishContent)
}

// ArchiveContent transitions a content into the archived state
func (h *ContentHandler) ArchiveContent(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "archive", h.service.ArchiveContent)
}

func (h *ContentHandler) transition(w http.ResponseWriter, r *http.Request, op string,
	do func(ctx context.Context, id, userID uuid.UUID, role editorial.Role) (*editorial.Content, error)) {

	identity, _ := IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid content ID", http.StatusBadRequest)
		return
	}

	content, err := do(r.Context(), id, identity.UserID, identity.Role)
	if err != nil {
		slog.Error("failed to "+op+" content", "content_id", id, "error", err)
		renderError(w, r, err)
		return
	}

	slog.Info("content state changed", "op", op, "content_id", id, "state", content.State())
	render.JSON(w, r, toContentResponse(content))
}

// ListByAuthor lists an author's content
func (h *ContentHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	authorID, err := uuid.Parse(chi.URLParam(r, "authorID"))
	if err != nil {
		http.Error(w, "invalid author ID", http.StatusBadRequest)
		return
	}

	contents, err := h.service.GetContentByAuthor(r.Context(), authorID, identity.UserID, identity.Role)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, toContentResponses(contents))
}

// ListPublished returns a page of published content
func (h *ContentHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	contents, err := h.service.GetPublishedContent(r.Context(), page, limit)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, toContentResponses(contents))
}

// ListFeatured returns the featured content listing
func (h *ContentHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	contents, err := h.service.GetFeaturedContent(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, toContentResponses(contents))
}

// SearchContent lists content matching the query parameters
func (h *ContentHandler) SearchContent(w http.ResponseWriter, r *http.Request) {
	var opts []editorial.SearchOption

	if v := r.URL.Query().Get("author_id"); v != "" {
		authorID, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid author_id", http.StatusBadRequest)
			return
		}
		opts = append(opts, editorial.ByAuthor(authorID))
	}
	if v := r.URL.Query().Get("state"); v != "" {
		state, err := editorial.ParseContentState(v)
		if err != nil {
			renderError(w, r, err)
			return
		}
		opts = append(opts, editorial.InState(state))
	}
	if v := r.URL.Query().Get("published_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid published_after", http.StatusBadRequest)
			return
		}
		opts = append(opts, editorial.PublishedAfter(t))
	}
	if v := r.URL.Query().Get("published_before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid published_before", http.StatusBadRequest)
			return
		}
		opts = append(opts, editorial.PublishedBefore(t))
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		opts = append(opts, editorial.WithLimit(limit))
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
		opts = append(opts, editorial.WithOffset(offset))
	}

	contents, err := h.service.SearchContent(r.Context(), opts...)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, toContentResponses(contents))
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
