package editorial

import "fmt"

// ContentState is the domain type for content lifecycle states.
type ContentState string

// Content state constants (typed).
const (
	StateDraft     ContentState = "draft"
	StatePublished ContentState = "published"
	StatePrivate   ContentState = "private"
	StateArchived  ContentState = "archived"
)

// ParseContentState validates a state tag and returns the typed state.
func ParseContentState(s string) (ContentState, error) {
	state := ContentState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
	}
	return state, nil
}

// IsValid reports whether the state is one of the four known tags.
func (s ContentState) IsValid() bool {
	switch s {
	case StateDraft, StatePublished, StatePrivate, StateArchived:
		return true
	}
	return false
}

func (s ContentState) IsDraft() bool     { return s == StateDraft }
func (s ContentState) IsPublished() bool { return s == StatePublished }
func (s ContentState) IsPrivate() bool   { return s == StatePrivate }
func (s ContentState) IsArchived() bool  { return s == StateArchived }

// CanTransitionTo reports whether moving from s to target is legal. Every
// ordered pair of states, self-loops included, is legal except archived
// content returning straight to published.
func (s ContentState) CanTransitionTo(target ContentState) bool {
	return !(s == StateArchived && target == StatePublished)
}

func (s ContentState) String() string { return string(s) }
