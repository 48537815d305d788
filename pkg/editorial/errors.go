package editorial

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrInvalidInput indicates a field invariant was violated
	ErrInvalidInput = errors.New("invalid input")

	// ErrIllegalTransition indicates a forbidden state-machine edge
	ErrIllegalTransition = errors.New("illegal state transition")

	// ErrNotFound indicates a content was not found
	ErrNotFound = errors.New("content not found")

	// ErrPermissionDenied indicates the caller is not authorized for the operation
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidOperation indicates a delete operation used against the wrong lifecycle phase
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidState indicates an unknown content state tag
	ErrInvalidState = errors.New("invalid content state")

	// ErrInvalidRole indicates an unknown role
	ErrInvalidRole = errors.New("invalid role")
)

// ContentError represents an error related to content operations
type ContentError struct {
	ContentID uuid.UUID
	Op        string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for content %s: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}
