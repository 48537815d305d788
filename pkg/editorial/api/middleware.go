package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/pressroom/editorial/pkg/editorial"
)

// Identity carries the caller identity resolved by the transport layer.
// Authentication itself happens upstream; this layer only reads the already
// resolved user id and role from request headers.
type Identity struct {
	UserID uuid.UUID
	Role   editorial.Role
}

type contextKey string

const identityKey contextKey = "editorial.identity"

// RequireIdentity resolves the caller identity from the X-User-ID and X-Role
// headers and stores it in the request context. Requests without a valid
// identity are rejected.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.Header.Get("X-User-ID"))
		if err != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "missing or invalid X-User-ID header"})
			return
		}

		role, err := editorial.ParseRole(r.Header.Get("X-Role"))
		if err != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "missing or invalid X-Role header"})
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, Identity{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the caller identity stored by RequireIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// renderError maps domain failures to HTTP status codes.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, editorial.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, editorial.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, editorial.ErrInvalidInput),
		errors.Is(err, editorial.ErrInvalidState),
		errors.Is(err, editorial.ErrInvalidRole):
		status = http.StatusBadRequest
	case errors.Is(err, editorial.ErrIllegalTransition),
		errors.Is(err, editorial.ErrInvalidOperation):
		status = http.StatusConflict
	}

	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
