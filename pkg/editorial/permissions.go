package editorial

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the closed set of caller roles recognized by the policy.
type Role string

// Role constants (typed).
const (
	RoleAuthor Role = "Author"
	RoleEditor Role = "Editor"
	RoleAdmin  Role = "Admin"
)

// ParseRole validates a role tag and returns the typed role.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return role, nil
}

// IsValid reports whether the role is one of the three known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAuthor, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Policy holds the pure role/ownership authorization predicates. It is
// stateless and safe to share between goroutines.
type Policy struct{}

// CanEdit reports whether the caller may modify the content: authors only
// their own, editors and admins anything.
func (Policy) CanEdit(c Content, userID uuid.UUID, role Role) bool {
	switch role {
	case RoleAuthor:
		return c.IsOwnedBy(userID)
	case RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// CanPublish follows the same rule as CanEdit.
func (p Policy) CanPublish(c Content, userID uuid.UUID, role Role) bool {
	return p.CanEdit(c, userID, role)
}

// CanDelete reports whether the caller may delete the content. Admins may
// delete anything. Authors may delete their own unpublished content, editors
// any unpublished content; neither may delete published content.
func (Policy) CanDelete(c Content, userID uuid.UUID, role Role) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleAuthor:
		return c.IsOwnedBy(userID) && !c.State().IsPublished()
	case RoleEditor:
		return !c.State().IsPublished()
	}
	return false
}
